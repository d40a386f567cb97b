package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

// GormStrokeRepository 是 StrokeRepository 接口的 GORM 实现
type GormStrokeRepository struct {
	db *gorm.DB
}

// NewGormStrokeRepository 创建 GormStrokeRepository 实例
func NewGormStrokeRepository(db *gorm.DB) *GormStrokeRepository {
	if db == nil {
		panic("database connection cannot be nil for GormStrokeRepository")
	}
	return &GormStrokeRepository{db: db}
}

// Save 持久化单个采样点
func (r *GormStrokeRepository) Save(ctx context.Context, stroke *domain.Stroke) error {
	err := r.db.WithContext(ctx).Create(stroke).Error
	if err != nil {
		return fmt.Errorf("gorm: save stroke (board %d, user %d): %w", stroke.BoardID, stroke.UserID, err)
	}
	return nil
}

// FindAllByBoardID 返回指定画板的全部采样点，按持久化顺序排序
func (r *GormStrokeRepository) FindAllByBoardID(ctx context.Context, boardID int64) ([]domain.Stroke, error) {
	var strokes []domain.Stroke
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("id asc").
		Find(&strokes).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find strokes for board %d: %w", boardID, err)
	}
	return strokes, nil
}

// CountByBoardID 返回指定画板已持久化的采样点数量
func (r *GormStrokeRepository) CountByBoardID(ctx context.Context, boardID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Stroke{}).
		Where("board_id = ?", boardID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count strokes for board %d: %w", boardID, err)
	}
	return count, nil
}

// FindBoardIDs 返回所有出现过笔划的画板 ID
func (r *GormStrokeRepository) FindBoardIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Stroke{}).
		Distinct("board_id").
		Pluck("board_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find stroked board ids: %w", err)
	}
	return ids, nil
}
