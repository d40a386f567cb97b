package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/tasks"
)

// CounterReconcileHandler 处理画板笔划计数器的对账任务。
// 发布路径上的计数器递增允许失败，这里定期用笔划表的
// COUNT(*) 真值覆盖 number_of_strokes。
type CounterReconcileHandler struct {
	strokeRepo repository.StrokeRepository
	boardRepo  repository.BoardRepository
}

// NewCounterReconcileHandler 创建 Handler 实例
func NewCounterReconcileHandler(strokeRepo repository.StrokeRepository, boardRepo repository.BoardRepository) *CounterReconcileHandler {
	if strokeRepo == nil || boardRepo == nil {
		panic("Repositories cannot be nil for CounterReconcileHandler")
	}
	return &CounterReconcileHandler{strokeRepo: strokeRepo, boardRepo: boardRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *CounterReconcileHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})
	logCtx.Info("Processing counter reconcile task...")

	var payload tasks.CounterReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	boardIDs := []int64{payload.BoardID}
	if payload.BoardID == 0 {
		var err error
		boardIDs, err = h.strokeRepo.FindBoardIDs(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list boards with strokes")
			return fmt.Errorf("list boards with strokes: %w", err)
		}
	}

	reconciled := 0
	for _, boardID := range boardIDs {
		if err := h.reconcileBoard(ctx, boardID); err != nil {
			// 单个画板失败不中断整轮对账，留给下一轮重试
			logCtx.WithField("board_id", boardID).WithError(err).Warn("Failed to reconcile board counter")
			continue
		}
		reconciled++
	}

	logCtx.WithFields(logrus.Fields{"boards": len(boardIDs), "reconciled": reconciled}).Info("Counter reconcile task processed")
	return nil
}

func (h *CounterReconcileHandler) reconcileBoard(ctx context.Context, boardID int64) error {
	count, err := h.strokeRepo.CountByBoardID(ctx, boardID)
	if err != nil {
		return fmt.Errorf("count strokes for board %d: %w", boardID, err)
	}
	if err := h.boardRepo.SetStrokeCount(ctx, boardID, count); err != nil {
		return fmt.Errorf("set stroke count for board %d: %w", boardID, err)
	}
	return nil
}
