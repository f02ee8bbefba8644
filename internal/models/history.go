package models

import (
	"encoding/json"
	"time"

	"github.com/wfunc/poker-pool/internal/game"
)

// HistoryPlayer 历史记录中的玩家结算快照
type HistoryPlayer struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Score int    `json:"score"` // 结束时的剩余牌数
}

// GameHistory 对局历史记录
// 在判定胜者的同一事务内写入，每局恰好一条
type GameHistory struct {
	BaseModel
	RoomCode    string    `gorm:"size:6;index;not null" json:"room_code"` // 房间码
	PlayerIDs   string    `gorm:"type:text" json:"-"`                     // 参与者UID列表（JSON），用于按玩家检索
	Players     string    `gorm:"type:text" json:"-"`                     // 玩家结算快照（JSON）
	WinnerUID   string    `gorm:"size:64;index" json:"winner_uid"`        // 胜者UID
	WinnerName  string    `gorm:"size:64" json:"winner_name"`             // 胜者显示名称
	CompletedAt time.Time `gorm:"index" json:"completed_at"`              // 对局结束时间
}

// TableName 指定表名
func (GameHistory) TableName() string {
	return "game_histories"
}

// GetPlayerIDs 反序列化参与者UID列表
func (m *GameHistory) GetPlayerIDs() ([]string, error) {
	var ids []string
	if m.PlayerIDs == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(m.PlayerIDs), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetPlayers 反序列化玩家结算快照
func (m *GameHistory) GetPlayers() ([]HistoryPlayer, error) {
	var players []HistoryPlayer
	if m.Players == "" {
		return players, nil
	}
	if err := json.Unmarshal([]byte(m.Players), &players); err != nil {
		return nil, err
	}
	return players, nil
}

// NewGameHistory 从结束时的房间状态与胜者构建历史记录
func NewGameHistory(r *game.Room, winner *game.Player, completedAt time.Time) (*GameHistory, error) {
	ids := make([]string, 0, len(r.Players))
	players := make([]HistoryPlayer, 0, len(r.Players))
	for i := range r.Players {
		p := &r.Players[i]
		ids = append(ids, p.UID)
		players = append(players, HistoryPlayer{
			UID:   p.UID,
			Name:  p.Name,
			Score: p.RemainingScore(),
		})
	}

	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	playersJSON, err := json.Marshal(players)
	if err != nil {
		return nil, err
	}

	return &GameHistory{
		RoomCode:    r.Code,
		PlayerIDs:   string(idsJSON),
		Players:     string(playersJSON),
		WinnerUID:   winner.UID,
		WinnerName:  winner.Name,
		CompletedAt: completedAt,
	}, nil
}
