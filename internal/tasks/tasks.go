package tasks

import (
	"encoding/json"
)

// 定义任务类型常量
const (
	// TypeCounterReconcile 对账画板的笔划计数器：计数器递增是
	// 尽力而为的，失败时由该任务用 COUNT(*) 真值修复。
	TypeCounterReconcile = "board:reconcile_counters"
)

// CounterReconcilePayload 定义了计数器对账任务的数据结构。
// BoardID 为 0 表示对账所有有笔划记录的画板。
type CounterReconcilePayload struct {
	BoardID int64 `json:"board_id"`
}

// NewCounterReconcileTask 创建一个计数器对账任务的 payload。
func NewCounterReconcileTask(boardID int64) ([]byte, error) {
	payload := CounterReconcilePayload{BoardID: boardID}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return payloadBytes, nil
}
