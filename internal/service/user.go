package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
)

// UserService 负责用户目录的查询逻辑。
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建 UserService 实例。
func NewUserService(userRepo repository.UserRepository) *UserService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for UserService")
	}
	return &UserService{userRepo: userRepo}
}

// GetUserByDisplayName 根据展示名返回用户（不含密码哈希）。
func (s *UserService) GetUserByDisplayName(ctx context.Context, displayName string) (*domain.User, error) {
	user, err := s.userRepo.FindByDisplayName(ctx, displayName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, displayName)
		}
		logrus.WithField("display_name", displayName).WithError(err).Error("Error finding user")
		return nil, ErrInternalServer
	}
	user.Password = ""
	return user, nil
}

// GetUserByID 根据 ID 返回用户（不含密码哈希）。
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, id)
		}
		logrus.WithField("user_id", id).WithError(err).Error("Error finding user")
		return nil, ErrInternalServer
	}
	user.Password = ""
	return user, nil
}
