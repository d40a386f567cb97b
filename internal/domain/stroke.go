package domain

import (
	"strconv"
	"time"
)

// Stroke 表示一个已持久化的采样点记录（每个采样点一行，而不是每个手势一行）。
// 记录创建后不再更新，仅由外部的数据保留流程删除。
type Stroke struct {
	ID        uint64        `gorm:"primaryKey"`
	BoardID   int64         `gorm:"index;not null"`          // 所属画板 ID (外键关联 Board.ID)
	UserID    int64         `gorm:"index;not null"`          // 产生该笔划的用户 ID
	Color     *string       `gorm:"type:varchar(32)"`        // 画笔颜色，例如 "#FF0000"
	Thickness *int64        ``                               // 画笔粗细
	Type      DrawEventType `gorm:"type:varchar(16);not null"`
	Tool      DrawingTool   `gorm:"type:varchar(16)"`
	XCord     float64       `gorm:"column:x_cord;not null"`
	YCord     float64       `gorm:"column:y_cord;not null"`
	CreatedAt time.Time     `gorm:"index;not null"` // 服务端持久化时间，不使用客户端时间戳
}

// TableName 指定 GORM 表名。
func (Stroke) TableName() string { return "strokes" }

// NewStrokeFromEvent 由一个 StrokeEvent 和已解析的画板/用户构造持久化记录。
// CreatedAt 取服务端当前时间，允许与事件自带的客户端时间戳偏离。
func NewStrokeFromEvent(event StrokeEvent, board *Board, user *User, now time.Time) *Stroke {
	return &Stroke{
		BoardID:   board.ID,
		UserID:    user.ID,
		Color:     event.BrushColor,
		Thickness: event.BrushSize,
		Type:      event.Type,
		Tool:      event.Tool,
		XCord:     event.X,
		YCord:     event.Y,
		CreatedAt: now,
	}
}

// ToEvent 将持久化记录映射回 StrokeEvent 形态，用于冷启动时的历史回放。
// 时间戳由 CreatedAt 导出，记录自身的 ID 同时充当事件 ID 和 strokeId。
func (s *Stroke) ToEvent(displayName string) StrokeEvent {
	id := strconv.FormatUint(s.ID, 10)
	return StrokeEvent{
		ID:          id,
		BoardID:     s.BoardID,
		DisplayName: displayName,
		Timestamp:   s.CreatedAt.UnixMilli(),
		Type:        s.Type,
		Tool:        s.Tool,
		X:           s.XCord,
		Y:           s.YCord,
		BrushSize:   s.Thickness,
		BrushColor:  s.Color,
		StrokeID:    id,
	}
}
