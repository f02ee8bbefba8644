package repository

import (
	"context"
	"errors"

	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/models"
	"gorm.io/gorm"
)

// RoomRepository 房间仓储接口
// 所有写入走乐观并发控制：携带读取时的版本号，版本不匹配则拒绝
type RoomRepository interface {
	BaseRepository
	Create(ctx context.Context, room *models.Room) error
	FindByCode(ctx context.Context, code string) (*models.Room, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	UpdateWithVersion(ctx context.Context, room *models.Room, expectedVersion int64) error
	WithTx(tx *gorm.DB) RoomRepository
}

// roomRepo 房间仓储实现
type roomRepo struct {
	*BaseRepo
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// WithTx 使用事务
func (r *roomRepo) WithTx(tx *gorm.DB) RoomRepository {
	return &roomRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}

// Create 创建房间，房间码冲突返回已存在错误
func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	err := r.db.WithContext(ctx).Create(room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.ErrAlreadyExists, "房间码: "+room.Code)
		}
		return apperrors.Wrap(err, apperrors.ErrDatabaseInsert)
	}
	return nil
}

// FindByCode 根据房间码查找房间
func (r *roomRepo) FindByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrRoomNotFound, "房间码: "+code)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return &room, nil
}

// ExistsByCode 检查房间码是否已被占用
func (r *roomRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return count > 0, nil
}

// UpdateWithVersion 条件更新：仅当版本号未变时写入并递增版本
// 影响行数为0说明期间有并发写入，返回版本冲突
func (r *roomRepo) UpdateWithVersion(ctx context.Context, room *models.Room, expectedVersion int64) error {
	result := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("code = ? AND version = ?", room.Code, expectedVersion).
		Updates(map[string]interface{}{
			"host":         room.Host,
			"host_name":    room.HostName,
			"players":      room.Players,
			"deck":         room.Deck,
			"started":      room.Started,
			"finished":     room.Finished,
			"current_turn": room.CurrentTurn,
			"version":      expectedVersion + 1,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrDatabaseUpdate)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrVersionConflict, "房间码: "+room.Code)
	}

	room.Version = expectedVersion + 1
	return nil
}
