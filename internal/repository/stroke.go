package repository

import (
	"context"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

// StrokeRepository 定义了笔划采样点的持久化存储。
type StrokeRepository interface {
	// Save 持久化单个采样点。记录写入后不再更新。
	Save(ctx context.Context, stroke *domain.Stroke) error

	// FindAllByBoardID 返回指定画板的全部采样点，按记录 ID 升序
	// （即持久化顺序），供缓存过期后的历史回放使用。
	FindAllByBoardID(ctx context.Context, boardID int64) ([]domain.Stroke, error)

	// CountByBoardID 返回指定画板已持久化的采样点数量，供计数器对账使用。
	CountByBoardID(ctx context.Context, boardID int64) (int64, error)

	// FindBoardIDs 返回所有出现过笔划的画板 ID，供后台对账任务遍历。
	FindBoardIDs(ctx context.Context) ([]int64, error)
}
