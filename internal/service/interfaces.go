package service

import (
	"context"

	"github.com/wfunc/poker-pool/internal/game"
	"github.com/wfunc/poker-pool/internal/models"
)

// AuthService 认证服务接口
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Guest(ctx context.Context, req *GuestRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
}

// RoomService 房间服务接口
// 所有写操作以乐观并发控制提交，冲突时在服务内部有限重试
type RoomService interface {
	CreateRoom(ctx context.Context, uid, name string) (*RoomView, error)
	GetRoom(ctx context.Context, code string) (*RoomView, error)
	JoinRoom(ctx context.Context, code, uid, name string) (*RoomView, error)
	StartGame(ctx context.Context, code, uid string) (*RoomView, error)
	ToggleCard(ctx context.Context, code, uid string, index int) (*RoomView, error)
	DrawCard(ctx context.Context, code, uid string) (*RoomView, error)
}

// HistoryService 对局历史服务接口
type HistoryService interface {
	GetPlayerHistory(ctx context.Context, uid, filter string, page, pageSize int) (*HistoryResponse, error)
}

// RoomNotifier 房间快照推送接口
// 每次提交成功的房间变更后调用，由WebSocket层实现
type RoomNotifier interface {
	NotifyRoom(code string, view *RoomView)
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6"`
	Nickname string `json:"nickname"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GuestRequest 访客登录请求
type GuestRequest struct {
	Nickname string `json:"nickname"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	TokenType    string       `json:"token_type"`
}

// RoomView 房间快照：房间状态加派生的胜者信息
// 胜者由状态纯函数推导，所有订阅方对同一快照得到一致结果
type RoomView struct {
	Room    *game.Room   `json:"room"`
	Version int64        `json:"version"`
	Winner  *game.Player `json:"winner,omitempty"`
}

// NewRoomView 构建房间快照
func NewRoomView(r *game.Room, version int64) *RoomView {
	return &RoomView{
		Room:    r,
		Version: version,
		Winner:  game.WinnerOf(r),
	}
}

// HistoryEntry 历史记录条目
type HistoryEntry struct {
	RoomCode    string                 `json:"room_code"`
	Players     []models.HistoryPlayer `json:"players"`
	WinnerUID   string                 `json:"winner_uid"`
	WinnerName  string                 `json:"winner_name"`
	Won         bool                   `json:"won"`
	CompletedAt int64                  `json:"completed_at"`
}

// HistoryStats 历史统计汇总
type HistoryStats struct {
	Total int64 `json:"total"`
	Won   int64 `json:"won"`
	Lost  int64 `json:"lost"`
}

// HistoryResponse 历史查询响应
type HistoryResponse struct {
	Entries  []*HistoryEntry `json:"entries"`
	Stats    HistoryStats    `json:"stats"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int64           `json:"total"`
}
