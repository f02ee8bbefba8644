package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/game"
	"github.com/wfunc/poker-pool/internal/models"
	"github.com/wfunc/poker-pool/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errNoChange 表示本次操作无需写入（如重复加入）
var errNoChange = errors.New("no change")

// RoomServiceConfig 房间服务配置
type RoomServiceConfig struct {
	CodeAttempts int // 房间码防碰撞重试次数
	CasRetries   int // 版本冲突重试次数
	MaxPlayers   int // 房间人数上限
}

// DefaultRoomServiceConfig 默认配置，人数上限受一副牌约束
func DefaultRoomServiceConfig() RoomServiceConfig {
	return RoomServiceConfig{
		CodeAttempts: 5,
		CasRetries:   3,
		MaxPlayers:   game.DeckSize / game.HandSize,
	}
}

// roomService 房间服务实现
type roomService struct {
	db          *gorm.DB
	roomRepo    repository.RoomRepository
	historyRepo repository.HistoryRepository
	cfg         RoomServiceConfig
	notifier    RoomNotifier
	log         *zap.Logger
}

// NewRoomService 创建房间服务
func NewRoomService(
	db *gorm.DB,
	roomRepo repository.RoomRepository,
	historyRepo repository.HistoryRepository,
	cfg RoomServiceConfig,
	notifier RoomNotifier,
	log *zap.Logger,
) RoomService {
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = 5
	}
	if cfg.CasRetries <= 0 {
		cfg.CasRetries = 3
	}
	if cfg.MaxPlayers <= 0 || cfg.MaxPlayers*game.HandSize > game.DeckSize {
		cfg.MaxPlayers = game.DeckSize / game.HandSize
	}
	return &roomService{
		db:          db,
		roomRepo:    roomRepo,
		historyRepo: historyRepo,
		cfg:         cfg,
		notifier:    notifier,
		log:         log,
	}
}

// CreateRoom 创建房间：生成房间码并检查占用，碰撞则换码重试
func (s *roomService) CreateRoom(ctx context.Context, uid, name string) (*RoomView, error) {
	for attempt := 0; attempt < s.cfg.CodeAttempts; attempt++ {
		code := game.GenerateRoomCode()

		exists, err := s.roomRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		r := game.NewRoom(code, uid, name)
		m, err := models.NewRoomModel(r)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrDatabaseInsert)
		}

		if err := s.roomRepo.Create(ctx, m); err != nil {
			// 检查与创建之间被抢注，换码重试
			if apperrors.Is(err, apperrors.ErrAlreadyExists) {
				continue
			}
			return nil, err
		}

		s.log.Info("房间已创建",
			zap.String("room_code", code),
			zap.String("host", uid),
		)
		return NewRoomView(r, m.Version), nil
	}

	return nil, apperrors.Newf(apperrors.ErrRoomCodeExhausted, "连续%d次碰撞", s.cfg.CodeAttempts)
}

// GetRoom 读取房间快照
func (s *roomService) GetRoom(ctx context.Context, code string) (*RoomView, error) {
	m, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	r, err := m.ToGame()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return NewRoomView(r, m.Version), nil
}

// JoinRoom 加入房间：已在房间内时为幂等空操作
func (s *roomService) JoinRoom(ctx context.Context, code, uid, name string) (*RoomView, error) {
	return s.mutate(ctx, code, func(r *game.Room) error {
		if r.HasPlayer(uid) {
			return errNoChange
		}
		if len(r.Players) >= s.cfg.MaxPlayers {
			return apperrors.Newf(apperrors.ErrInvalidParam, "房间已满员(%d人)", s.cfg.MaxPlayers)
		}
		r.AddPlayer(uid, name)
		return nil
	}, nil)
}

// StartGame 开局：仅房主可操作，整个发牌在单个事务内完成
// 并发开局只有一方能提交，落败方重试后看到已开局并得到明确错误
func (s *roomService) StartGame(ctx context.Context, code, uid string) (*RoomView, error) {
	view, err := s.mutate(ctx, code, func(r *game.Room) error {
		if r.Host != uid {
			return apperrors.New(apperrors.ErrNotHost)
		}
		if r.Started {
			return apperrors.New(apperrors.ErrGameAlreadyStarted, "房间码: "+code)
		}
		if !r.CanDeal() {
			return apperrors.Newf(apperrors.ErrDeckExhausted, "%d名玩家需要%d张牌", len(r.Players), len(r.Players)*game.HandSize)
		}
		r.Deal()
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	s.log.Info("对局已开始",
		zap.String("room_code", code),
		zap.String("host", uid),
		zap.Int("players", len(view.Room.Players)),
		zap.Int("deck_remaining", len(view.Room.Deck)),
	)
	return view, nil
}

// ToggleCard 翻转手牌打出状态；打出后若清空手牌则在同一事务内
// 结束对局并写入历史记录，保证每局恰好一条
func (s *roomService) ToggleCard(ctx context.Context, code, uid string, index int) (*RoomView, error) {
	var winner *game.Player

	view, err := s.mutate(ctx, code, func(r *game.Room) error {
		winner = nil
		if !r.Started {
			return apperrors.New(apperrors.ErrGameNotStarted, "房间码: "+code)
		}
		if r.Finished {
			return apperrors.New(apperrors.ErrGameFinished, "房间码: "+code)
		}
		i := r.FindPlayer(uid)
		if i < 0 {
			return apperrors.New(apperrors.ErrPlayerNotInRoom, "UID: "+uid)
		}
		if !r.Players[i].ToggleSelect(index) {
			return apperrors.Newf(apperrors.ErrInvalidCardIndex, "位置 %d 超出手牌范围 [0,%d)", index, len(r.Players[i].Cards))
		}

		if w := game.WinnerOf(r); w != nil {
			r.Finished = true
			winner = w
		}
		return nil
	}, func(tx *gorm.DB, r *game.Room) error {
		if winner == nil {
			return nil
		}
		history, err := models.NewGameHistory(r, winner, time.Now())
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseInsert)
		}
		return s.historyRepo.WithTx(tx).Create(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	if view.Winner != nil {
		s.log.Info("对局结束",
			zap.String("room_code", code),
			zap.String("winner", view.Winner.UID),
		)
	}
	return view, nil
}

// DrawCard 犯规补牌：从共享牌堆顶部取一张
func (s *roomService) DrawCard(ctx context.Context, code, uid string) (*RoomView, error) {
	return s.mutate(ctx, code, func(r *game.Room) error {
		if !r.Started {
			return apperrors.New(apperrors.ErrGameNotStarted, "房间码: "+code)
		}
		if r.Finished {
			return apperrors.New(apperrors.ErrGameFinished, "房间码: "+code)
		}
		if !r.HasPlayer(uid) {
			return apperrors.New(apperrors.ErrPlayerNotInRoom, "UID: "+uid)
		}
		if !r.DrawCard(uid) {
			return apperrors.New(apperrors.ErrDeckEmpty, "房间码: "+code)
		}
		return nil
	}, nil)
}

// mutate 房间写入骨架：事务内重读、应用变更、条件提交
// 版本冲突时整体重试，重试耗尽返回冲突错误由调用方决定是否再试
func (s *roomService) mutate(
	ctx context.Context,
	code string,
	apply func(r *game.Room) error,
	onCommit func(tx *gorm.DB, r *game.Room) error,
) (*RoomView, error) {
	var lastErr error

	for attempt := 0; attempt <= s.cfg.CasRetries; attempt++ {
		var (
			view    *RoomView
			changed bool
		)

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txRepo := s.roomRepo.WithTx(tx)

			m, err := txRepo.FindByCode(ctx, code)
			if err != nil {
				return err
			}
			r, err := m.ToGame()
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
			}

			if err := apply(r); err != nil {
				if errors.Is(err, errNoChange) {
					view = NewRoomView(r, m.Version)
					return nil
				}
				return err
			}

			if err := m.FromGame(r); err != nil {
				return apperrors.Wrap(err, apperrors.ErrDatabaseUpdate)
			}
			if err := txRepo.UpdateWithVersion(ctx, m, m.Version); err != nil {
				return err
			}
			if onCommit != nil {
				if err := onCommit(tx, r); err != nil {
					return err
				}
			}

			view = NewRoomView(r, m.Version)
			changed = true
			return nil
		})

		if err == nil {
			if changed {
				s.notify(code, view)
			}
			return view, nil
		}

		if apperrors.Is(err, apperrors.ErrVersionConflict) {
			lastErr = err
			s.log.Debug("房间写入版本冲突，重试",
				zap.String("room_code", code),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		return nil, err
	}

	return nil, lastErr
}

// notify 推送提交成功后的房间快照
func (s *roomService) notify(code string, view *RoomView) {
	if s.notifier != nil {
		s.notifier.NotifyRoom(code, view)
	}
}
