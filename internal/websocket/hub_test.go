package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// HubTestSuite Hub订阅管理测试套件
type HubTestSuite struct {
	suite.Suite
	hub *Hub
}

func (suite *HubTestSuite) SetupTest() {
	suite.hub = NewHub(zap.NewNop())
}

// newTestClient 构建不带底层连接的客户端
func newTestClient(id, uid, code string) *Client {
	return &Client{
		ID:       id,
		UID:      uid,
		RoomCode: code,
		Send:     make(chan []byte, 8),
	}
}

// recvType 读取客户端收到的下一条消息类型
func (suite *HubTestSuite) recvType(c *Client) string {
	select {
	case data := <-c.Send:
		var msg Message
		suite.Require().NoError(json.Unmarshal(data, &msg))
		return msg.Type
	case <-time.After(time.Second):
		suite.FailNow("等待消息超时")
		return ""
	}
}

// 测试房间消息只推送给该房间的订阅方
func (suite *HubTestSuite) TestSendToRoomFanOut() {
	a := newTestClient("c-a", "u-a", "ROOM01")
	b := newTestClient("c-b", "u-b", "ROOM01")
	other := newTestClient("c-o", "u-o", "ROOM02")
	suite.hub.registerClient(a)
	suite.hub.registerClient(b)
	suite.hub.registerClient(other)

	suite.Equal(MessageTypeConnected, suite.recvType(a))
	suite.Equal(MessageTypeConnected, suite.recvType(b))
	suite.Equal(MessageTypeConnected, suite.recvType(other))

	suite.hub.SendToRoom("ROOM01", &Message{
		Type:      MessageTypeRoomSnapshot,
		RoomCode:  "ROOM01",
		Timestamp: time.Now().Unix(),
	})

	suite.Equal(MessageTypeRoomSnapshot, suite.recvType(a))
	suite.Equal(MessageTypeRoomSnapshot, suite.recvType(b))
	suite.Empty(other.Send)
	suite.Equal(2, suite.hub.GetRoomSubscribers("ROOM01"))
}

// 测试注销后房间订阅与连接池同步移除
func (suite *HubTestSuite) TestUnregisterRemovesSubscription() {
	a := newTestClient("c-a", "u-a", "ROOM01")
	suite.hub.registerClient(a)
	suite.Equal(1, suite.hub.GetRoomSubscribers("ROOM01"))
	suite.Equal(1, suite.hub.GetOnlineCount())

	suite.hub.unregisterClient(a)
	suite.Equal(0, suite.hub.GetRoomSubscribers("ROOM01"))
	suite.Equal(0, suite.hub.GetOnlineCount())
}

// 测试推送遇到刚断开的订阅方不会向已关闭通道发送
// 注销先关连接池中的通道再退房间订阅，推送方可能拿到仍含断开方的订阅快照
func (suite *HubTestSuite) TestSendToRoomSkipsDisconnectingClient() {
	gone := newTestClient("c-gone", "u-gone", "ROOM01")
	live := newTestClient("c-live", "u-live", "ROOM01")
	suite.hub.registerClient(gone)
	suite.hub.registerClient(live)
	suite.Equal(MessageTypeConnected, suite.recvType(gone))
	suite.Equal(MessageTypeConnected, suite.recvType(live))

	// 复现注销进行到一半的状态：连接池已删、通道已关、房间订阅未退
	suite.hub.clientsMu.Lock()
	delete(suite.hub.clients, gone.ID)
	close(gone.Send)
	suite.hub.clientsMu.Unlock()

	suite.NotPanics(func() {
		suite.hub.SendToRoom("ROOM01", &Message{
			Type:      MessageTypeRoomSnapshot,
			RoomCode:  "ROOM01",
			Timestamp: time.Now().Unix(),
		})
	})
	suite.Equal(MessageTypeRoomSnapshot, suite.recvType(live))
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubTestSuite))
}
