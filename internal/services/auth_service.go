package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"nopo_backend/internal/auth"
	"nopo_backend/internal/logger"
	"nopo_backend/internal/models"
	"nopo_backend/internal/repositories"
	"nopo_backend/internal/services/dto"
	"nopo_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error)
	IssueTokens(ctx context.Context, db *gorm.DB, user *models.User) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, db *gorm.DB, refreshToken string) error
	// ParseAccessToken проверяет access-токен и возвращает ID пользователя
	ParseAccessToken(token string) (string, error)
}

type authService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tokens           *auth.TokenManager
	refreshTTL       time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tokens *auth.TokenManager,
	refreshTTL time.Duration,
) AuthService {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokens:           tokens,
		refreshTTL:       refreshTTL,
	}
}

// Register - регистрация нового пользователя
func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Nickname:     strings.TrimSpace(req.Nickname),
		Gender:       strings.ToLower(req.Gender),
		AgeRange:     req.AgeRange,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleAuthError(err)
	}

	resp, err := s.IssueTokens(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID)
	return resp, nil
}

// Login - вход по email и паролю
func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(db.WithContext(ctx), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "Login failed: wrong password", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.IssueTokens(ctx, db, user)
}

// IssueTokens выдает новый access-токен и сохраняет новый refresh-токен.
func (s *authService) IssueTokens(ctx context.Context, db *gorm.DB, user *models.User) (*dto.TokenResponse, error) {
	db = db.WithContext(ctx)

	accessToken, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.refreshTokenRepo.DeleteExpiredByUserID(db, user.ID); err != nil {
		logger.CtxWithError(ctx, "Failed to purge expired refresh tokens", err, "user_id", user.ID)
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.refreshTokenRepo.Create(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.TTL().Seconds()),
		UserID:       user.ID,
	}, nil
}

// RefreshToken - ротация: старый refresh-токен удаляется, выдается новая пара.
func (s *authService) RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.TokenResponse, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	stored, err := s.refreshTokenRepo.FindByToken(tx, refreshToken)
	if err != nil {
		return nil, handleAuthError(err)
	}

	if err := s.refreshTokenRepo.DeleteByToken(tx, refreshToken); err != nil {
		return nil, handleAuthError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		// удаление просроченного токена должно сохраниться
		if err := tx.Commit().Error; err != nil {
			return nil, apperrors.InternalError(err)
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(tx, stored.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	resp, err := s.IssueTokens(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// Logout - удаление refresh-токена
func (s *authService) Logout(ctx context.Context, db *gorm.DB, refreshToken string) error {
	if err := s.refreshTokenRepo.DeleteByToken(db.WithContext(ctx), refreshToken); err != nil {
		return handleAuthError(err)
	}
	return nil
}

func (s *authService) ParseAccessToken(token string) (string, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return "", apperrors.ErrInvalidToken.WithError(err)
	}
	return claims.UserID, nil
}

func handleAuthError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrRefreshTokenNotFound):
		return apperrors.ErrInvalidToken
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
