package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DrawEventType 表示一次笔划手势中单个采样点所处的阶段。
// 一个完整的手势由 start ... draw* ... end 序列组成，共享同一个 strokeId。
type DrawEventType string

const (
	EventStart DrawEventType = "start" // 手势开始
	EventDraw  DrawEventType = "draw"  // 手势中间采样点
	EventEnd   DrawEventType = "end"   // 手势结束
)

// DrawingTool 表示产生事件的绘图工具。
type DrawingTool string

const (
	ToolPen    DrawingTool = "pen"
	ToolEraser DrawingTool = "eraser"
	ToolHand   DrawingTool = "hand"
)

// ParseDrawEventType 解析客户端传入的事件类型字符串（大小写不敏感）。
func ParseDrawEventType(v string) (DrawEventType, error) {
	switch strings.ToLower(v) {
	case string(EventStart):
		return EventStart, nil
	case string(EventDraw):
		return EventDraw, nil
	case string(EventEnd):
		return EventEnd, nil
	}
	return "", fmt.Errorf("unknown draw event type: %q", v)
}

// ParseDrawingTool 解析客户端传入的工具字符串（大小写不敏感）。
func ParseDrawingTool(v string) (DrawingTool, error) {
	switch strings.ToLower(v) {
	case string(ToolPen):
		return ToolPen, nil
	case string(ToolEraser):
		return ToolEraser, nil
	case string(ToolHand):
		return ToolHand, nil
	}
	return "", fmt.Errorf("unknown drawing tool: %q", v)
}

// UnmarshalJSON 在反序列化时校验事件类型取值。
func (t *DrawEventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDrawEventType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalJSON 在反序列化时校验工具取值。
func (t *DrawingTool) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDrawingTool(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// CanDraw 报告该工具是否会留下笔迹。
func (t DrawingTool) CanDraw() bool { return t == ToolPen }

// CanErase 报告该工具是否用于擦除。
func (t DrawingTool) CanErase() bool { return t == ToolEraser }

// StrokeEvent 是单个采样点在广播/缓存链路上的瞬态表示。
// 创建后不可变；字段名与前端约定的 JSON 协议保持一致。
type StrokeEvent struct {
	ID          string        `json:"id"`
	BoardID     int64         `json:"boardId"`
	DisplayName string        `json:"displayName"`
	Timestamp   int64         `json:"timestamp"` // 客户端时间（毫秒），允许与服务端 CreatedAt 不一致
	Type        DrawEventType `json:"type"`
	Tool        DrawingTool   `json:"tool"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	BrushSize   *int64        `json:"brushSize,omitempty"`
	BrushColor  *string       `json:"brushColor,omitempty"`
	StrokeID    string        `json:"strokeId"`
}

// CursorEvent 是纯瞬态的光标位置遥测，只走广播和带 TTL 的缓存，永不落库。
type CursorEvent struct {
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}
