package repository

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/game"
	"github.com/wfunc/poker-pool/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// HistoryRepositoryTestSuite 对局历史仓储测试套件
type HistoryRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo HistoryRepository
	ctx  context.Context
}

func (suite *HistoryRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewHistoryRepository(suite.db)
	suite.ctx = context.Background()
}

func (suite *HistoryRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// newFinishedHistory 构建一条已结束对局的历史记录
func (suite *HistoryRepositoryTestSuite) newFinishedHistory(code, winnerUID string, completedAt time.Time) *models.GameHistory {
	r := game.NewRoom(code, "uid-host", "房主")
	r.AddPlayer("uid-guest", "玩家二")
	r.Deal()

	// 让指定玩家清空手牌
	i := r.FindPlayer(winnerUID)
	suite.Require().GreaterOrEqual(i, 0)
	for j := range r.Players[i].Cards {
		r.Players[i].ToggleSelect(j)
	}

	winner := game.WinnerOf(r)
	suite.Require().NotNil(winner)

	h, err := models.NewGameHistory(r, winner, completedAt)
	suite.Require().NoError(err)
	return h
}

// 测试写入与按房间码查询
func (suite *HistoryRepositoryTestSuite) TestCreateAndFindByRoomCode() {
	h := suite.newFinishedHistory("ROOM01", "uid-host", time.Now())
	suite.NoError(suite.repo.Create(suite.ctx, h))

	histories, err := suite.repo.FindByRoomCode(suite.ctx, "ROOM01")
	suite.NoError(err)
	suite.Len(histories, 1)
	suite.Equal("uid-host", histories[0].WinnerUID)
	suite.Equal("房主", histories[0].WinnerName)

	players, err := histories[0].GetPlayers()
	suite.NoError(err)
	suite.Len(players, 2)
	// 胜者剩余牌数为0
	for _, p := range players {
		if p.UID == "uid-host" {
			suite.Equal(0, p.Score)
		}
	}
}

// 测试按玩家UID查询（带引号匹配，避免UID前缀误匹配）
func (suite *HistoryRepositoryTestSuite) TestFindByPlayerID() {
	now := time.Now()
	suite.NoError(suite.repo.Create(suite.ctx, suite.newFinishedHistory("ROOM01", "uid-host", now.Add(-2*time.Hour))))
	suite.NoError(suite.repo.Create(suite.ctx, suite.newFinishedHistory("ROOM02", "uid-guest", now.Add(-1*time.Hour))))
	suite.NoError(suite.repo.Create(suite.ctx, suite.newFinishedHistory("ROOM03", "uid-host", now)))

	pagination := NewPagination(1, 10)
	histories, err := suite.repo.FindByPlayerID(suite.ctx, "uid-guest", pagination)
	suite.NoError(err)
	suite.Len(histories, 3) // 两人都参与了全部三局
	suite.Equal(int64(3), pagination.Total)

	// 按结束时间倒序
	suite.Equal("ROOM03", histories[0].RoomCode)
	suite.Equal("ROOM01", histories[2].RoomCode)

	// 未参与的UID查不到记录
	histories, err = suite.repo.FindByPlayerID(suite.ctx, "uid-stranger", NewPagination(1, 10))
	suite.NoError(err)
	suite.Empty(histories)
}

// 测试分页
func (suite *HistoryRepositoryTestSuite) TestFindByPlayerIDPagination() {
	now := time.Now()
	for i := 0; i < 5; i++ {
		code := string(rune('A'+i)) + "OOM0" + string(rune('0'+i))
		suite.NoError(suite.repo.Create(suite.ctx, suite.newFinishedHistory(code, "uid-host", now.Add(time.Duration(i)*time.Minute))))
	}

	pagination := NewPagination(1, 2)
	histories, err := suite.repo.FindByPlayerID(suite.ctx, "uid-host", pagination)
	suite.NoError(err)
	suite.Len(histories, 2)
	suite.Equal(int64(5), pagination.Total)

	pagination = NewPagination(3, 2)
	histories, err = suite.repo.FindByPlayerID(suite.ctx, "uid-host", pagination)
	suite.NoError(err)
	suite.Len(histories, 1)
}

// 测试数据库不可用时计数失败被上报而非静默返回空页
func (suite *HistoryRepositoryTestSuite) TestFindByPlayerIDOnClosedDB() {
	CleanupTestDB(suite.db)

	_, err := suite.repo.FindByPlayerID(suite.ctx, "uid-host", NewPagination(1, 10))
	suite.Error(err)
	suite.True(apperrors.Is(err, apperrors.ErrDatabaseQuery))
}

// 测试胜场统计
func (suite *HistoryRepositoryTestSuite) TestCountWinsByPlayerID() {
	now := time.Now()
	suite.NoError(suite.repo.Create(suite.ctx, suite.newFinishedHistory("ROOM01", "uid-host", now)))
	suite.NoError(suite.repo.Create(suite.ctx, suite.newFinishedHistory("ROOM02", "uid-host", now)))
	suite.NoError(suite.repo.Create(suite.ctx, suite.newFinishedHistory("ROOM03", "uid-guest", now)))

	count, err := suite.repo.CountWinsByPlayerID(suite.ctx, "uid-host")
	suite.NoError(err)
	suite.Equal(int64(2), count)

	count, err = suite.repo.CountWinsByPlayerID(suite.ctx, "uid-guest")
	suite.NoError(err)
	suite.Equal(int64(1), count)
}

func TestHistoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(HistoryRepositoryTestSuite))
}
