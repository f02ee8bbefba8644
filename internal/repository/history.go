package repository

import (
	"context"

	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/models"
	"gorm.io/gorm"
)

// HistoryRepository 对局历史仓储接口
type HistoryRepository interface {
	BaseRepository
	Create(ctx context.Context, history *models.GameHistory) error
	FindByPlayerID(ctx context.Context, uid string, pagination *Pagination) ([]*models.GameHistory, error)
	FindByRoomCode(ctx context.Context, code string) ([]*models.GameHistory, error)
	CountWinsByPlayerID(ctx context.Context, uid string) (int64, error)
	WithTx(tx *gorm.DB) HistoryRepository
}

// historyRepo 对局历史仓储实现
type historyRepo struct {
	*BaseRepo
}

// NewHistoryRepository 创建对局历史仓储
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// WithTx 使用事务
func (r *historyRepo) WithTx(tx *gorm.DB) HistoryRepository {
	return &historyRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}

// Create 写入对局历史记录
func (r *historyRepo) Create(ctx context.Context, history *models.GameHistory) error {
	if err := r.db.WithContext(ctx).Create(history).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseInsert)
	}
	return nil
}

// FindByPlayerID 查询某玩家参与的对局，按结束时间倒序
// PlayerIDs为JSON数组文本，用LIKE匹配带引号的UID避免前缀误匹配
func (r *historyRepo) FindByPlayerID(ctx context.Context, uid string, pagination *Pagination) ([]*models.GameHistory, error) {
	var histories []*models.GameHistory
	query := r.db.WithContext(ctx).Model(&models.GameHistory{}).
		Where("player_ids LIKE ?", "%\""+uid+"\"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	pagination.Total = total

	err := query.
		Order("completed_at DESC").
		Limit(pagination.PageSize).
		Offset(pagination.Offset()).
		Find(&histories).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return histories, nil
}

// FindByRoomCode 查询某房间的全部对局记录
func (r *historyRepo) FindByRoomCode(ctx context.Context, code string) ([]*models.GameHistory, error) {
	var histories []*models.GameHistory
	err := r.db.WithContext(ctx).
		Where("room_code = ?", code).
		Order("completed_at DESC").
		Find(&histories).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return histories, nil
}

// CountWinsByPlayerID 统计某玩家的获胜局数
func (r *historyRepo) CountWinsByPlayerID(ctx context.Context, uid string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GameHistory{}).
		Where("winner_uid = ?", uid).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return count, nil
}
