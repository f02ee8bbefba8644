package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// JWTTestSuite JWT工具测试套件
type JWTTestSuite struct {
	suite.Suite
	manager *JWTManager
}

func (suite *JWTTestSuite) SetupTest() {
	suite.manager = NewJWTManager(
		"test-secret-key",
		1*time.Hour,    // access token expiry
		7*24*time.Hour, // refresh token expiry
	)
}

// 测试创建JWT管理器
func (suite *JWTTestSuite) TestNewJWTManager() {
	manager := NewJWTManager("secret", 1*time.Hour, 24*time.Hour)
	suite.NotNil(manager)
	// 私有字段无法直接访问，通过GetTokenExpiry间接验证
	suite.Equal(1*time.Hour, manager.GetTokenExpiry("access"))
	suite.Equal(24*time.Hour, manager.GetTokenExpiry("refresh"))
}

// 测试生成访问令牌
func (suite *JWTTestSuite) TestGenerateAccessToken() {
	token, err := suite.manager.GenerateAccessToken("uid-123", "testuser", "测试用户", false)
	suite.NoError(err)
	suite.NotEmpty(token)
}

// 测试生成刷新令牌
func (suite *JWTTestSuite) TestGenerateRefreshToken() {
	token, err := suite.manager.GenerateRefreshToken("uid-456")
	suite.NoError(err)
	suite.NotEmpty(token)
}

// 测试验证令牌
func (suite *JWTTestSuite) TestValidateToken() {
	token, err := suite.manager.GenerateAccessToken("uid-789", "player", "玩家", true)
	suite.NoError(err)

	claims, err := suite.manager.ValidateToken(token)
	suite.NoError(err)
	suite.Equal("uid-789", claims.UID)
	suite.Equal("player", claims.Username)
	suite.Equal("玩家", claims.Nickname)
	suite.True(claims.IsGuest)
	suite.Equal("access", claims.TokenType)
	suite.Equal("uid-789", claims.Subject)
}

// 测试验证无效令牌
func (suite *JWTTestSuite) TestValidateInvalidToken() {
	_, err := suite.manager.ValidateToken("not-a-token")
	suite.Error(err)

	// 错误的签名密钥
	other := NewJWTManager("other-secret", 1*time.Hour, 24*time.Hour)
	token, err := other.GenerateAccessToken("uid-1", "u", "n", false)
	suite.NoError(err)

	_, err = suite.manager.ValidateToken(token)
	suite.Error(err)
}

// 测试过期令牌
func (suite *JWTTestSuite) TestExpiredToken() {
	expired := NewJWTManager("test-secret-key", -1*time.Hour, 24*time.Hour)
	token, err := expired.GenerateAccessToken("uid-1", "u", "n", false)
	suite.NoError(err)

	_, err = suite.manager.ValidateToken(token)
	suite.Error(err)
}

// 测试刷新访问令牌
func (suite *JWTTestSuite) TestRefreshAccessToken() {
	refreshToken, err := suite.manager.GenerateRefreshToken("uid-refresh")
	suite.NoError(err)

	newToken, err := suite.manager.RefreshAccessToken(refreshToken, "player", "玩家", false)
	suite.NoError(err)
	suite.NotEmpty(newToken)

	claims, err := suite.manager.ValidateToken(newToken)
	suite.NoError(err)
	suite.Equal("uid-refresh", claims.UID)
	suite.Equal("access", claims.TokenType)
}

// 测试用访问令牌刷新应被拒绝
func (suite *JWTTestSuite) TestRefreshWithAccessToken() {
	accessToken, err := suite.manager.GenerateAccessToken("uid-1", "u", "n", false)
	suite.NoError(err)

	_, err = suite.manager.RefreshAccessToken(accessToken, "u", "n", false)
	suite.Error(err)
}

func TestJWTSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}
