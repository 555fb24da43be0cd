package services

import (
	"context"
	"errors"
	"strings"

	"nopo_backend/internal/logger"
	"nopo_backend/internal/repositories"
	"nopo_backend/internal/services/dto"
	"nopo_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetUserInfo(ctx context.Context, db *gorm.DB, userID string) (*dto.UserInfoResponse, error)
	UpdateUser(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateUserRequest) (*dto.TokenResponse, error)
	DeleteUser(ctx context.Context, db *gorm.DB, userID string) error
}

type userService struct {
	userRepo         repositories.UserRepository
	reviewRepo       repositories.ReviewRepository
	visitedRepo      repositories.VisitedRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	authService      AuthService
	imageService     ImageService
}

func NewUserService(
	userRepo repositories.UserRepository,
	reviewRepo repositories.ReviewRepository,
	visitedRepo repositories.VisitedRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	authService AuthService,
	imageService ImageService,
) UserService {
	return &userService{
		userRepo:         userRepo,
		reviewRepo:       reviewRepo,
		visitedRepo:      visitedRepo,
		refreshTokenRepo: refreshTokenRepo,
		authService:      authService,
		imageService:     imageService,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, db *gorm.DB, userID string) (*dto.UserInfoResponse, error) {
	db = db.WithContext(ctx)

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	visitedCount, err := s.visitedRepo.CountByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UserInfoResponse{
		ID:              user.ID,
		Email:           user.Email,
		Nickname:        user.Nickname,
		Gender:          user.Gender,
		AgeRange:        user.AgeRange,
		Bio:             user.Bio,
		ProfileImageURL: user.ProfileImageURL,
		VisitedCount:    visitedCount,
	}, nil
}

// UpdateUser меняет профиль и выдает новую пару токенов.
func (s *userService) UpdateUser(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateUserRequest) (*dto.TokenResponse, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	if req.Nickname != nil {
		user.Nickname = strings.TrimSpace(*req.Nickname)
	}
	if req.Gender != nil {
		user.Gender = strings.ToLower(*req.Gender)
	}
	if req.AgeRange != nil {
		user.AgeRange = *req.AgeRange
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = *req.ProfileImageURL
	}

	if err := s.userRepo.UpdateProfile(tx, user); err != nil {
		return nil, handleUserError(err)
	}

	tokens, err := s.authService.IssueTokens(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User profile updated", "user_id", userID)
	return tokens, nil
}

// DeleteUser удаляет пользователя вместе с отзывами, отметками о посещении и токенами.
// Файлы картинок отзывов удаляются после коммита по возможности.
func (s *userService) DeleteUser(ctx context.Context, db *gorm.DB, userID string) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.FindByID(tx, userID); err != nil {
		return handleUserError(err)
	}

	urls, err := s.reviewRepo.FindImageURLsByUser(tx, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.reviewRepo.DeleteReviewsByUser(tx, userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.visitedRepo.DeleteByUser(tx, userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.refreshTokenRepo.DeleteByUserID(tx, userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.Delete(tx, userID); err != nil {
		return handleUserError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	if len(urls) > 0 && s.imageService != nil {
		if err := s.imageService.DeleteByURLs(ctx, userID, urls); err != nil {
			logger.CtxWarn(ctx, "Failed to delete user images from storage", "user_id", userID, "error", err.Error())
		}
	}

	logger.CtxInfo(ctx, "User deleted", "user_id", userID, "images", len(urls))
	return nil
}

func handleUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
