package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
)

// BoardService 负责画板目录的业务逻辑。
type BoardService struct {
	boardRepo repository.BoardRepository
}

// NewBoardService 创建 BoardService 实例。
func NewBoardService(boardRepo repository.BoardRepository) *BoardService {
	if boardRepo == nil {
		panic("BoardRepository cannot be nil for BoardService")
	}
	return &BoardService{boardRepo: boardRepo}
}

// CreateBoard 创建一个新画板。
func (s *BoardService) CreateBoard(ctx context.Context, name string, ownerID int64) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{"board_name": name, "owner_id": ownerID})
	if name == "" {
		return nil, fmt.Errorf("board name is required")
	}

	board := &domain.Board{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.boardRepo.Save(ctx, board); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Board creation failed: name already taken")
			return nil, fmt.Errorf("board name %q already taken", name)
		}
		logCtx.WithError(err).Error("Database error during board creation")
		return nil, ErrInternalServer
	}
	logCtx.WithField("board_id", board.ID).Info("Board created")
	return board, nil
}

// GetBoard 根据 ID 返回画板。
func (s *BoardService) GetBoard(ctx context.Context, id int64) (*domain.Board, error) {
	board, err := s.boardRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrBoardNotFound, id)
		}
		logrus.WithField("board_id", id).WithError(err).Error("Error finding board")
		return nil, ErrInternalServer
	}
	return board, nil
}

// ListBoards 返回所有画板。
func (s *BoardService) ListBoards(ctx context.Context) ([]domain.Board, error) {
	boards, err := s.boardRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Error listing boards")
		return nil, ErrInternalServer
	}
	return boards, nil
}
