package service

import (
	"context"

	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/repository"
	"go.uber.org/zap"
)

// 历史查询过滤器
const (
	HistoryFilterAll  = "all"
	HistoryFilterWon  = "won"
	HistoryFilterLost = "lost"
)

// historyService 对局历史服务实现
type historyService struct {
	historyRepo repository.HistoryRepository
	log         *zap.Logger
}

// NewHistoryService 创建对局历史服务
func NewHistoryService(historyRepo repository.HistoryRepository, log *zap.Logger) HistoryService {
	return &historyService{
		historyRepo: historyRepo,
		log:         log,
	}
}

// GetPlayerHistory 查询玩家参与的对局，按结束时间倒序
// filter取all/won/lost，胜负以胜者UID判定；统计汇总覆盖全部参与对局
func (s *historyService) GetPlayerHistory(ctx context.Context, uid, filter string, page, pageSize int) (*HistoryResponse, error) {
	switch filter {
	case "", HistoryFilterAll, HistoryFilterWon, HistoryFilterLost:
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidParam, "未知的过滤器: %s", filter)
	}

	pagination := repository.NewPagination(page, pageSize)
	histories, err := s.historyRepo.FindByPlayerID(ctx, uid, pagination)
	if err != nil {
		return nil, err
	}

	wins, err := s.historyRepo.CountWinsByPlayerID(ctx, uid)
	if err != nil {
		return nil, err
	}

	entries := make([]*HistoryEntry, 0, len(histories))
	for _, h := range histories {
		players, err := h.GetPlayers()
		if err != nil {
			s.log.Warn("历史记录玩家数据损坏，已跳过",
				zap.Uint("id", h.ID),
				zap.Error(err),
			)
			continue
		}

		won := h.WinnerUID == uid
		if filter == HistoryFilterWon && !won {
			continue
		}
		if filter == HistoryFilterLost && won {
			continue
		}

		entries = append(entries, &HistoryEntry{
			RoomCode:    h.RoomCode,
			Players:     players,
			WinnerUID:   h.WinnerUID,
			WinnerName:  h.WinnerName,
			Won:         won,
			CompletedAt: h.CompletedAt.Unix(),
		})
	}

	return &HistoryResponse{
		Entries: entries,
		Stats: HistoryStats{
			Total: pagination.Total,
			Won:   wins,
			Lost:  pagination.Total - wins,
		},
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
		Total:    pagination.Total,
	}, nil
}
