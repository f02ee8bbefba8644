package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/models"
	"github.com/wfunc/poker-pool/internal/repository"
	"github.com/wfunc/poker-pool/internal/utils"
	"go.uber.org/zap"
)

// authService 认证服务实现
// 取代外部身份提供方弹窗：注册/登录/访客均签发稳定UID与JWT令牌
type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// Register 用户注册
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	// 检查用户名是否已存在
	if existing, _ := s.userRepo.FindByUsername(ctx, req.Username); existing != nil {
		return nil, apperrors.New(apperrors.ErrAlreadyExists, "用户名: "+req.Username)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUnknown, "密码加密失败")
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}

	user := &models.User{
		UID:      uuid.NewString(),
		Username: req.Username,
		Nickname: nickname,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.log.Info("用户注册成功",
		zap.String("uid", user.UID),
		zap.String("username", user.Username),
	)
	return s.issueTokens(user)
}

// Login 用户登录
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		// 不区分用户不存在与密码错误
		return nil, apperrors.New(apperrors.ErrAuthentication, "用户名或密码错误")
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		return nil, apperrors.New(apperrors.ErrAuthentication, "用户名或密码错误")
	}

	s.log.Info("用户登录成功", zap.String("uid", user.UID))
	return s.issueTokens(user)
}

// Guest 访客登录：生成稳定UID与默认显示名称，无需密码
func (s *authService) Guest(ctx context.Context, req *GuestRequest) (*AuthResponse, error) {
	nickname := req.Nickname
	if nickname == "" {
		nickname = fmt.Sprintf("Player %d", rand.Intn(9000)+1000)
	}

	user := &models.User{
		UID:      uuid.NewString(),
		Nickname: nickname,
		IsGuest:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.Error("创建访客失败", zap.Error(err))
		return nil, err
	}

	s.log.Info("访客登录",
		zap.String("uid", user.UID),
		zap.String("nickname", nickname),
	)
	return s.issueTokens(user)
}

// RefreshToken 使用刷新令牌换取新的访问令牌
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, apperrors.New(apperrors.ErrTokenInvalid)
	}

	user, err := s.userRepo.FindByUID(ctx, claims.UID)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrAuthentication, "用户不存在")
	}

	return s.issueTokens(user)
}

// issueTokens 为用户签发访问与刷新令牌
func (s *authService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.UID, user.Username, user.Nickname, user.IsGuest)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUnknown, "生成访问令牌失败")
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.UID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUnknown, "生成刷新令牌失败")
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenExpiry("access").Seconds()),
		TokenType:    "Bearer",
	}, nil
}
