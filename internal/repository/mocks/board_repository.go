package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

// BoardRepository 是 repository.BoardRepository 的手写 Mock 实现。
type BoardRepository struct {
	mock.Mock
}

func (m *BoardRepository) FindByID(ctx context.Context, id int64) (*domain.Board, error) {
	args := m.Called(ctx, id)
	var board *domain.Board
	if args.Get(0) != nil {
		board = args.Get(0).(*domain.Board)
	}
	return board, args.Error(1)
}

func (m *BoardRepository) FindByName(ctx context.Context, name string) (*domain.Board, error) {
	args := m.Called(ctx, name)
	var board *domain.Board
	if args.Get(0) != nil {
		board = args.Get(0).(*domain.Board)
	}
	return board, args.Error(1)
}

func (m *BoardRepository) FindAll(ctx context.Context) ([]domain.Board, error) {
	args := m.Called(ctx)
	var boards []domain.Board
	if args.Get(0) != nil {
		boards = args.Get(0).([]domain.Board)
	}
	return boards, args.Error(1)
}

func (m *BoardRepository) Save(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *BoardRepository) IncrementStrokeCount(ctx context.Context, boardID int64) error {
	args := m.Called(ctx, boardID)
	return args.Error(0)
}

func (m *BoardRepository) SetStrokeCount(ctx context.Context, boardID int64, count int64) error {
	args := m.Called(ctx, boardID, count)
	return args.Error(0)
}
