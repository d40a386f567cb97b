package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository/mocks"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/tasks"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/worker"
)

func TestCounterReconcileHandler_AllBoards(t *testing.T) {
	// Arrange: payload BoardID 为 0 时对账所有有笔划的画板
	mockStrokeRepo := new(mocks.StrokeRepository)
	mockBoardRepo := new(mocks.BoardRepository)
	handler := worker.NewCounterReconcileHandler(mockStrokeRepo, mockBoardRepo)
	ctx := context.Background()

	mockStrokeRepo.On("FindBoardIDs", ctx).Return([]int64{7, 9}, nil).Once()
	mockStrokeRepo.On("CountByBoardID", ctx, int64(7)).Return(int64(120), nil).Once()
	mockStrokeRepo.On("CountByBoardID", ctx, int64(9)).Return(int64(4), nil).Once()
	mockBoardRepo.On("SetStrokeCount", ctx, int64(7), int64(120)).Return(nil).Once()
	mockBoardRepo.On("SetStrokeCount", ctx, int64(9), int64(4)).Return(nil).Once()

	payload, err := tasks.NewCounterReconcileTask(0)
	require.NoError(t, err)
	task := asynq.NewTask(tasks.TypeCounterReconcile, payload)

	// Act
	err = handler.ProcessTask(ctx, task)

	// Assert
	assert.NoError(t, err)
	mockStrokeRepo.AssertExpectations(t)
	mockBoardRepo.AssertExpectations(t)
}

func TestCounterReconcileHandler_SingleBoard(t *testing.T) {
	// Arrange
	mockStrokeRepo := new(mocks.StrokeRepository)
	mockBoardRepo := new(mocks.BoardRepository)
	handler := worker.NewCounterReconcileHandler(mockStrokeRepo, mockBoardRepo)
	ctx := context.Background()

	mockStrokeRepo.On("CountByBoardID", ctx, int64(7)).Return(int64(55), nil).Once()
	mockBoardRepo.On("SetStrokeCount", ctx, int64(7), int64(55)).Return(nil).Once()

	payload, _ := tasks.NewCounterReconcileTask(7)
	task := asynq.NewTask(tasks.TypeCounterReconcile, payload)

	// Act
	err := handler.ProcessTask(ctx, task)

	// Assert: 单画板模式不遍历
	assert.NoError(t, err)
	mockStrokeRepo.AssertNotCalled(t, "FindBoardIDs", mock.Anything)
}

func TestCounterReconcileHandler_BoardFailureDoesNotAbortRound(t *testing.T) {
	// Arrange: 单个画板对账失败不中断整轮
	mockStrokeRepo := new(mocks.StrokeRepository)
	mockBoardRepo := new(mocks.BoardRepository)
	handler := worker.NewCounterReconcileHandler(mockStrokeRepo, mockBoardRepo)
	ctx := context.Background()

	mockStrokeRepo.On("FindBoardIDs", ctx).Return([]int64{7, 9}, nil).Once()
	mockStrokeRepo.On("CountByBoardID", ctx, int64(7)).Return(int64(0), errors.New("query timeout")).Once()
	mockStrokeRepo.On("CountByBoardID", ctx, int64(9)).Return(int64(4), nil).Once()
	mockBoardRepo.On("SetStrokeCount", ctx, int64(9), int64(4)).Return(nil).Once()

	payload, _ := tasks.NewCounterReconcileTask(0)
	task := asynq.NewTask(tasks.TypeCounterReconcile, payload)

	// Act
	err := handler.ProcessTask(ctx, task)

	// Assert
	assert.NoError(t, err)
	mockBoardRepo.AssertNotCalled(t, "SetStrokeCount", ctx, int64(7), mock.Anything)
}

func TestCounterReconcileHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	// Arrange
	handler := worker.NewCounterReconcileHandler(new(mocks.StrokeRepository), new(mocks.BoardRepository))
	task := asynq.NewTask(tasks.TypeCounterReconcile, []byte("{not json"))

	// Act
	err := handler.ProcessTask(context.Background(), task)

	// Assert: 坏 payload 不值得重试
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
