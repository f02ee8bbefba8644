package game

import "math/rand"

// RoomCodeLength 房间码长度
const RoomCodeLength = 6

// 房间码字符集：大写字母与数字
const codeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateRoomCode 生成6位大写字母数字房间码
// 是否与现有房间冲突由调用方负责检查
func GenerateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range code {
		code[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(code)
}
