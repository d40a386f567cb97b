package dto

import (
	"encoding/json"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

// WebSocket 消息信封的 type 取值。入站和出站共用 draw/cursor；
// history 入站是请求、出站是应答；error 仅出站。
const (
	MessageTypeDraw    = "draw"
	MessageTypeCursor  = "cursor"
	MessageTypeHistory = "history"
	MessageTypeError   = "error"
)

// Envelope 表示从客户端 WebSocket 收到的消息外层信封。
// 内层负载的结构由 Type 决定，延迟到分发时再解码。
type Envelope struct {
	Type    string          `json:"type" binding:"required,oneof=draw cursor history"`
	Payload json.RawMessage `json:"payload"`
}

// HistoryRequest 表示客户端请求某画板的历史笔划。
// Limit <= 0 表示返回全部历史。
type HistoryRequest struct {
	BoardID int64 `json:"boardId"`
	Limit   int   `json:"limit,omitempty"`
}

// HistoryDTO 表示只发给请求方的历史应答。
type HistoryDTO struct {
	Type    string               `json:"type"`
	BoardID int64                `json:"boardId"`
	Events  []domain.StrokeEvent `json:"events"`
}

// BroadcastDTO 表示转发给客户端的广播消息，Payload 原样携带
// 频道上收到的事件字节。
type BroadcastDTO struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorDTO 表示发送给客户端的错误消息数据结构。
type ErrorDTO struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
