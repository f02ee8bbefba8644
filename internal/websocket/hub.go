package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/wfunc/poker-pool/internal/logger"
	"github.com/wfunc/poker-pool/internal/service"
	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心
// 按房间码组织订阅，房间每次提交变更后向全部订阅方推送完整快照
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 房间码到订阅客户端的映射
	roomClients map[string][]*Client
	roomMu      sync.RWMutex

	// 消息广播通道
	broadcast chan *Message

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client

	// 日志
	logger *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`                // 消息类型
	RoomCode  string          `json:"room_code,omitempty"` // 房间码
	Data      json.RawMessage `json:"data,omitempty"`      // 消息数据
	Timestamp int64           `json:"timestamp"`           // 时间戳
}

// MessageType 消息类型
const (
	// 系统消息
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"

	// 房间消息：完整房间快照，客户端以之整体替换本地缓存
	MessageTypeRoomSnapshot = "room_snapshot"
)

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		roomClients: make(map[string][]*Client),
		broadcast:   make(chan *Message, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

// Run 运行Hub
func (h *Hub) Run() {
	// 启动心跳检测
	go h.runHeartbeat()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient 注册客户端并加入房间订阅
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	if client.RoomCode != "" {
		h.roomMu.Lock()
		h.roomClients[client.RoomCode] = append(h.roomClients[client.RoomCode], client)
		h.roomMu.Unlock()
	}

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.String("uid", client.UID),
		zap.String("room_code", client.RoomCode))

	// 发送连接成功消息
	msg := &Message{
		Type:      MessageTypeConnected,
		RoomCode:  client.RoomCode,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"message":"连接成功"}`),
	}
	h.SendToClient(client.ID, msg)
}

// unregisterClient 注销客户端并退出房间订阅
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	if client.RoomCode != "" {
		h.roomMu.Lock()
		clients := h.roomClients[client.RoomCode]
		for i, c := range clients {
			if c.ID == client.ID {
				h.roomClients[client.RoomCode] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.roomClients[client.RoomCode]) == 0 {
			delete(h.roomClients, client.RoomCode)
		}
		h.roomMu.Unlock()
	}

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.String("uid", client.UID))
}

// broadcastMessage 向全部客户端广播消息
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("客户端发送缓冲区满",
				zap.String("client_id", client.ID))
		}
	}
	h.clientsMu.RUnlock()
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// SendToRoom 发送消息给房间内全部订阅客户端
func (h *Hub) SendToRoom(code string, message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.roomMu.RLock()
	clients := make([]*Client, len(h.roomClients[code]))
	copy(clients, h.roomClients[code])
	h.roomMu.RUnlock()

	// Send通道在clientsMu写锁下关闭，发送必须持有读锁并确认客户端仍在线
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for _, client := range clients {
		if _, ok := h.clients[client.ID]; !ok {
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("房间客户端发送缓冲区满",
				zap.String("client_id", client.ID),
				zap.String("room_code", code))
		}
	}
}

// NotifyRoom 推送房间快照，实现service.RoomNotifier
func (h *Hub) NotifyRoom(code string, view *service.RoomView) {
	data, err := json.Marshal(view)
	if err != nil {
		h.logger.Error("序列化房间快照失败",
			zap.String("room_code", code),
			zap.Error(err))
		return
	}

	h.SendToRoom(code, &Message{
		Type:      MessageTypeRoomSnapshot,
		RoomCode:  code,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})

	logger.LogSnapshotPush(code, h.GetRoomSubscribers(code))
}

// GetRoomSubscribers 获取房间当前订阅数
func (h *Hub) GetRoomSubscribers(code string) int {
	h.roomMu.RLock()
	defer h.roomMu.RUnlock()
	return len(h.roomClients[code])
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// runHeartbeat 运行心跳检测
func (h *Hub) runHeartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		ping := &Message{
			Type:      MessageTypePing,
			Timestamp: time.Now().Unix(),
		}
		h.broadcast <- ping
	}
}

// Register 注册客户端（公开方法）
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 注销客户端（公开方法）
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
