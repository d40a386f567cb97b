package repository

import (
	"context"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

// BoardRepository 定义了画板目录数据的存储和检索操作。
type BoardRepository interface {
	// FindByID 根据画板 ID 查找画板。
	// 如果画板不存在，返回 repository.ErrBoardNotFound。
	FindByID(ctx context.Context, id int64) (*domain.Board, error)

	// FindByName 根据画板名称查找画板。
	FindByName(ctx context.Context, name string) (*domain.Board, error)

	// FindAll 返回所有画板，供前端列表页使用。
	FindAll(ctx context.Context) ([]domain.Board, error)

	// Save 保存画板信息。基于 ID 存在则更新，否则创建。
	Save(ctx context.Context, board *domain.Board) error

	// IncrementStrokeCount 通过数据库侧的原子 UPDATE 把画板的笔划计数加一。
	// 之所以不在应用层读-改-写，是为了避免并发发布者之间丢失更新。
	IncrementStrokeCount(ctx context.Context, boardID int64) error

	// SetStrokeCount 把笔划计数直接设置为给定值，仅用于后台对账任务。
	SetStrokeCount(ctx context.Context, boardID int64, count int64) error
}
