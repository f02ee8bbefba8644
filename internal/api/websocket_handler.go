package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/wfunc/poker-pool/internal/middleware"
	"github.com/wfunc/poker-pool/internal/service"
	"github.com/wfunc/poker-pool/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler 房间WebSocket订阅处理器
type WebSocketHandler struct {
	hub         *websocket.Hub
	roomService service.RoomService
	log         *zap.Logger
	upgrader    gorillaws.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *websocket.Hub, roomService service.RoomService, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		roomService: roomService,
		log:         log,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 局域网同乐场景，允许任意来源握手
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// SubscribeRoom 订阅房间快照
// @Summary 订阅房间快照
// @Description 升级为WebSocket连接，连接建立后立即收到当前快照，此后房间每次变更推送完整快照
// @Tags WebSocket
// @Security Bearer
// @Param code path string true "房间码"
// @Param token query string false "访问令牌（握手无法携带Header时使用）"
// @Success 101 {string} string "Switching Protocols"
// @Failure 404 {object} ErrorResponse
// @Router /ws/rooms/{code} [get]
func (h *WebSocketHandler) SubscribeRoom(c *gin.Context) {
	code := roomCode(c)
	uid, _ := middleware.GetUID(c)

	// 升级前确认房间存在，避免为无效房间保持连接
	view, err := h.roomService.GetRoom(c.Request.Context(), code)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// 升级失败时gorilla已向客户端写入HTTP错误
		h.log.Warn("WebSocket升级失败",
			zap.String("room_code", code),
			zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, uid, code)

	// 注册前先塞入初始快照，保证订阅方第一帧就是完整状态
	if data, err := json.Marshal(view); err == nil {
		msg := &websocket.Message{
			Type:      websocket.MessageTypeRoomSnapshot,
			RoomCode:  code,
			Data:      data,
			Timestamp: time.Now().Unix(),
		}
		if payload, err := json.Marshal(msg); err == nil {
			client.Send <- payload
		}
	}

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
