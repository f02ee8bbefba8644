package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// PasswordTestSuite 密码工具测试套件
type PasswordTestSuite struct {
	suite.Suite
}

// 测试密码哈希
func (suite *PasswordTestSuite) TestHashPassword() {
	hash, err := HashPassword("my-password")
	suite.NoError(err)
	suite.NotEmpty(hash)
	suite.True(strings.HasPrefix(hash, "$argon2id$"))

	// 相同密码每次哈希结果不同（随机盐）
	hash2, err := HashPassword("my-password")
	suite.NoError(err)
	suite.NotEqual(hash, hash2)
}

// 测试密码验证
func (suite *PasswordTestSuite) TestVerifyPassword() {
	hash, err := HashPassword("correct-password")
	suite.NoError(err)

	ok, err := VerifyPassword("correct-password", hash)
	suite.NoError(err)
	suite.True(ok)

	ok, err = VerifyPassword("wrong-password", hash)
	suite.NoError(err)
	suite.False(ok)
}

// 测试非法哈希格式
func (suite *PasswordTestSuite) TestVerifyInvalidHash() {
	_, err := VerifyPassword("password", "not-a-valid-hash")
	suite.Error(err)

	_, err = VerifyPassword("password", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA")
	suite.Error(err)
}

// 测试随机字符串生成
func (suite *PasswordTestSuite) TestGenerateRandomString() {
	s1, err := GenerateRandomString(32)
	suite.NoError(err)
	suite.Len(s1, 32)

	s2, err := GenerateRandomString(32)
	suite.NoError(err)
	suite.NotEqual(s1, s2)
}

func TestPasswordSuite(t *testing.T) {
	suite.Run(t, new(PasswordTestSuite))
}
