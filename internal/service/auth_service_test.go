package service

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/repository"
	"github.com/wfunc/poker-pool/internal/utils"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthServiceTestSuite 认证服务测试套件
type AuthServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc AuthService
	ctx context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = repository.SetupTestDB()
	suite.svc = NewAuthService(
		repository.NewUserRepository(suite.db),
		utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour),
		zap.NewNop(),
	)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

// 测试注册
func (suite *AuthServiceTestSuite) TestRegister() {
	resp, err := suite.svc.Register(suite.ctx, &RegisterRequest{
		Username: "player1",
		Password: "secret123",
		Nickname: "玩家一",
	})
	suite.NoError(err)
	suite.NotEmpty(resp.User.UID)
	suite.Equal("玩家一", resp.User.Nickname)
	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.RefreshToken)
	suite.Equal("Bearer", resp.TokenType)

	// 昵称缺省时使用用户名
	resp, err = suite.svc.Register(suite.ctx, &RegisterRequest{
		Username: "player2",
		Password: "secret123",
	})
	suite.NoError(err)
	suite.Equal("player2", resp.User.Nickname)
}

// 测试重复注册
func (suite *AuthServiceTestSuite) TestRegisterDuplicate() {
	_, err := suite.svc.Register(suite.ctx, &RegisterRequest{
		Username: "player1",
		Password: "secret123",
	})
	suite.NoError(err)

	_, err = suite.svc.Register(suite.ctx, &RegisterRequest{
		Username: "player1",
		Password: "another",
	})
	suite.Error(err)
	suite.True(apperrors.Is(err, apperrors.ErrAlreadyExists))
}

// 测试登录
func (suite *AuthServiceTestSuite) TestLogin() {
	registered, err := suite.svc.Register(suite.ctx, &RegisterRequest{
		Username: "player1",
		Password: "secret123",
	})
	suite.NoError(err)

	resp, err := suite.svc.Login(suite.ctx, &LoginRequest{
		Username: "player1",
		Password: "secret123",
	})
	suite.NoError(err)
	// 登录得到的是注册时的同一UID
	suite.Equal(registered.User.UID, resp.User.UID)
}

// 测试错误凭据：不区分用户不存在与密码错误
func (suite *AuthServiceTestSuite) TestLoginBadCredentials() {
	_, err := suite.svc.Register(suite.ctx, &RegisterRequest{
		Username: "player1",
		Password: "secret123",
	})
	suite.NoError(err)

	_, err = suite.svc.Login(suite.ctx, &LoginRequest{Username: "player1", Password: "wrong"})
	suite.True(apperrors.Is(err, apperrors.ErrAuthentication))

	_, err = suite.svc.Login(suite.ctx, &LoginRequest{Username: "missing", Password: "secret123"})
	suite.True(apperrors.Is(err, apperrors.ErrAuthentication))
}

// 测试访客登录
func (suite *AuthServiceTestSuite) TestGuest() {
	resp, err := suite.svc.Guest(suite.ctx, &GuestRequest{Nickname: "临时玩家"})
	suite.NoError(err)
	suite.True(resp.User.IsGuest)
	suite.Equal("临时玩家", resp.User.Nickname)
	suite.NotEmpty(resp.AccessToken)

	// 昵称缺省时生成默认显示名称
	resp, err = suite.svc.Guest(suite.ctx, &GuestRequest{})
	suite.NoError(err)
	suite.Contains(resp.User.Nickname, "Player ")

	// 两个访客UID互不相同
	resp2, err := suite.svc.Guest(suite.ctx, &GuestRequest{})
	suite.NoError(err)
	suite.NotEqual(resp.User.UID, resp2.User.UID)
}

// 测试刷新令牌
func (suite *AuthServiceTestSuite) TestRefreshToken() {
	registered, err := suite.svc.Register(suite.ctx, &RegisterRequest{
		Username: "player1",
		Password: "secret123",
	})
	suite.NoError(err)

	resp, err := suite.svc.RefreshToken(suite.ctx, registered.RefreshToken)
	suite.NoError(err)
	suite.Equal(registered.User.UID, resp.User.UID)
	suite.NotEmpty(resp.AccessToken)

	// 用访问令牌刷新应被拒绝
	_, err = suite.svc.RefreshToken(suite.ctx, registered.AccessToken)
	suite.Error(err)
	suite.True(apperrors.Is(err, apperrors.ErrTokenInvalid))
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
