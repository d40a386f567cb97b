package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

// StrokeRepository 是 repository.StrokeRepository 的手写 Mock 实现。
type StrokeRepository struct {
	mock.Mock
}

func (m *StrokeRepository) Save(ctx context.Context, stroke *domain.Stroke) error {
	args := m.Called(ctx, stroke)
	return args.Error(0)
}

func (m *StrokeRepository) FindAllByBoardID(ctx context.Context, boardID int64) ([]domain.Stroke, error) {
	args := m.Called(ctx, boardID)
	var strokes []domain.Stroke
	if args.Get(0) != nil {
		strokes = args.Get(0).([]domain.Stroke)
	}
	return strokes, args.Error(1)
}

func (m *StrokeRepository) CountByBoardID(ctx context.Context, boardID int64) (int64, error) {
	args := m.Called(ctx, boardID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StrokeRepository) FindBoardIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	var ids []int64
	if args.Get(0) != nil {
		ids = args.Get(0).([]int64)
	}
	return ids, args.Error(1)
}
