package models

import (
	"encoding/json"

	"github.com/wfunc/poker-pool/internal/game"
)

// Room 房间持久化模型
// Players和Deck以JSON文本存储，Version用于乐观并发控制
type Room struct {
	BaseModel
	Code        string `gorm:"uniqueIndex;size:6;not null" json:"code"` // 房间码
	Host        string `gorm:"size:64;index;not null" json:"host"`      // 房主UID
	HostName    string `gorm:"size:64" json:"host_name"`                // 房主显示名称
	Players     string `gorm:"type:text" json:"-"`                      // 玩家列表（JSON）
	Deck        string `gorm:"type:text" json:"-"`                      // 剩余牌堆（JSON）
	Started     bool   `gorm:"default:false" json:"started"`            // 是否已开局
	Finished    bool   `gorm:"default:false" json:"finished"`           // 是否已结束
	CurrentTurn int    `gorm:"default:0" json:"current_turn"`           // 当前回合
	Version     int64  `gorm:"default:0;not null" json:"version"`       // 乐观锁版本号，每次写入递增
}

// TableName 指定表名
func (Room) TableName() string {
	return "rooms"
}

// ToGame 反序列化为内存房间状态
func (m *Room) ToGame() (*game.Room, error) {
	r := &game.Room{
		Code:        m.Code,
		Host:        m.Host,
		HostName:    m.HostName,
		Started:     m.Started,
		Finished:    m.Finished,
		CurrentTurn: m.CurrentTurn,
		Players:     []game.Player{},
		Deck:        []game.Card{},
	}

	if m.Players != "" {
		if err := json.Unmarshal([]byte(m.Players), &r.Players); err != nil {
			return nil, err
		}
	}
	if m.Deck != "" {
		if err := json.Unmarshal([]byte(m.Deck), &r.Deck); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// FromGame 将内存房间状态序列化回模型字段
func (m *Room) FromGame(r *game.Room) error {
	players, err := json.Marshal(r.Players)
	if err != nil {
		return err
	}
	deck, err := json.Marshal(r.Deck)
	if err != nil {
		return err
	}

	m.Code = r.Code
	m.Host = r.Host
	m.HostName = r.HostName
	m.Players = string(players)
	m.Deck = string(deck)
	m.Started = r.Started
	m.Finished = r.Finished
	m.CurrentTurn = r.CurrentTurn

	return nil
}

// NewRoomModel 从内存房间状态构建新模型
func NewRoomModel(r *game.Room) (*Room, error) {
	m := &Room{}
	if err := m.FromGame(r); err != nil {
		return nil, err
	}
	return m, nil
}
