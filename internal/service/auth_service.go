package service

import (
	"errors"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo     *repository.UserRepository
	ActivityRepo *repository.ActivityLogRepository
	JWTConfig    config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, activityRepo *repository.ActivityLogRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		UserRepo:     userRepo,
		ActivityRepo: activityRepo,
		JWTConfig:    jwtConfig,
	}
}

func (s *AuthService) Register(username, password string, role model.UserRole) (*model.User, error) {
	if _, err := s.UserRepo.FindByUsername(username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if role != model.Teacher {
		role = model.Student
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials, records a login event and issues a JWT.
// The login event feeds the advisor's login_count metric.
func (s *AuthService) Login(username, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := s.ActivityRepo.Create(&model.ActivityLog{
		UserID: user.ID,
		Action: model.ActionLogin,
	}); err != nil {
		logger.Log.Warn("failed to record login event", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(user, s.JWTConfig.Secret, s.JWTConfig.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
