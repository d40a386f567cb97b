package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
)

// GormBoardRepository 是 BoardRepository 接口的 GORM 实现
type GormBoardRepository struct {
	db *gorm.DB
}

// NewGormBoardRepository 创建 GormBoardRepository 实例
func NewGormBoardRepository(db *gorm.DB) *GormBoardRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBoardRepository")
	}
	return &GormBoardRepository{db: db}
}

// FindByID 实现根据画板 ID 查找画板
func (r *GormBoardRepository) FindByID(ctx context.Context, id int64) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).First(&board, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBoardNotFound
		}
		return nil, fmt.Errorf("gorm: find board by id %d: %w", id, err)
	}
	return &board, nil
}

// FindByName 实现根据画板名称查找画板
func (r *GormBoardRepository) FindByName(ctx context.Context, name string) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBoardNotFound
		}
		return nil, fmt.Errorf("gorm: find board by name %q: %w", name, err)
	}
	return &board, nil
}

// FindAll 返回所有画板
func (r *GormBoardRepository) FindAll(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	err := r.db.WithContext(ctx).Order("id asc").Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all boards: %w", err)
	}
	return boards, nil
}

// Save 实现保存画板信息（创建或更新）
func (r *GormBoardRepository) Save(ctx context.Context, board *domain.Board) error {
	err := r.db.WithContext(ctx).Save(board).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save board (id: %d, name: %s): %w", board.ID, board.Name, err)
	}
	return nil
}

// IncrementStrokeCount 通过数据库侧的原子 UPDATE 把笔划计数加一。
// UPDATE boards SET number_of_strokes = number_of_strokes + 1 在数据库内
// 原子执行，并发发布者不会互相覆盖。
func (r *GormBoardRepository) IncrementStrokeCount(ctx context.Context, boardID int64) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Board{}).
		Where("id = ?", boardID).
		UpdateColumn("number_of_strokes", gorm.Expr("number_of_strokes + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("gorm: increment stroke count for board %d: %w", boardID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBoardNotFound
	}
	return nil
}

// SetStrokeCount 把笔划计数直接设置为给定值，仅由对账任务调用
func (r *GormBoardRepository) SetStrokeCount(ctx context.Context, boardID int64, count int64) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Board{}).
		Where("id = ?", boardID).
		UpdateColumn("number_of_strokes", count)
	if result.Error != nil {
		return fmt.Errorf("gorm: set stroke count for board %d: %w", boardID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBoardNotFound
	}
	return nil
}
