package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
)

func TestParseDrawEventType_CaseInsensitive(t *testing.T) {
	cases := map[string]domain.DrawEventType{
		"start": domain.EventStart,
		"START": domain.EventStart,
		"Draw":  domain.EventDraw,
		"end":   domain.EventEnd,
	}
	for input, want := range cases {
		got, err := domain.ParseDrawEventType(input)
		require.NoError(t, err, "输入 %q 应解析成功", input)
		assert.Equal(t, want, got)
	}

	_, err := domain.ParseDrawEventType("scribble")
	assert.Error(t, err, "未知取值应报错")
}

func TestParseDrawingTool_CaseInsensitive(t *testing.T) {
	cases := map[string]domain.DrawingTool{
		"pen":    domain.ToolPen,
		"ERASER": domain.ToolEraser,
		"Hand":   domain.ToolHand,
	}
	for input, want := range cases {
		got, err := domain.ParseDrawingTool(input)
		require.NoError(t, err, "输入 %q 应解析成功", input)
		assert.Equal(t, want, got)
	}

	_, err := domain.ParseDrawingTool("brush")
	assert.Error(t, err)
}

func TestStrokeEvent_UnmarshalRejectsUnknownEnums(t *testing.T) {
	// 类型取值在反序列化时校验
	var event domain.StrokeEvent
	err := json.Unmarshal([]byte(`{"boardId":7,"type":"wiggle","tool":"pen"}`), &event)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"boardId":7,"type":"draw","tool":"PEN","x":1,"y":2}`), &event)
	require.NoError(t, err)
	assert.Equal(t, domain.EventDraw, event.Type)
	assert.Equal(t, domain.ToolPen, event.Tool)
}

func TestDrawingTool_Capabilities(t *testing.T) {
	assert.True(t, domain.ToolPen.CanDraw())
	assert.False(t, domain.ToolPen.CanErase())
	assert.True(t, domain.ToolEraser.CanErase())
	assert.False(t, domain.ToolHand.CanDraw())
	assert.False(t, domain.ToolHand.CanErase())
}

func TestStroke_ToEvent_RoundTrip(t *testing.T) {
	// 持久化记录映射回事件形态：记录 ID 同时充当事件 ID 和 strokeId
	color := "#00FF00"
	thickness := int64(5)
	stroke := domain.Stroke{
		ID: 88, BoardID: 7, UserID: 3,
		Color: &color, Thickness: &thickness,
		Type: domain.EventDraw, Tool: domain.ToolPen,
		XCord: 1.5, YCord: 2.5,
	}

	event := stroke.ToEvent("alice")
	assert.Equal(t, "88", event.ID)
	assert.Equal(t, "88", event.StrokeID)
	assert.Equal(t, int64(7), event.BoardID)
	assert.Equal(t, "alice", event.DisplayName)
	require.NotNil(t, event.BrushColor)
	assert.Equal(t, "#00FF00", *event.BrushColor)
	require.NotNil(t, event.BrushSize)
	assert.Equal(t, int64(5), *event.BrushSize)
}
