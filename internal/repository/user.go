package repository

import (
	"context"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

// UserRepository 定义了用户目录数据的存储和检索操作。
type UserRepository interface {
	// FindByDisplayName 根据展示名查找用户。绘图事件携带的是 displayName
	// 而不是用户 ID，因此这是核心链路上的主要查询。
	// 如果用户不存在，返回 repository.ErrUserNotFound。
	FindByDisplayName(ctx context.Context, displayName string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// Save 保存用户信息。基于 ID 存在则更新，否则创建。
	Save(ctx context.Context, user *domain.User) error
}
