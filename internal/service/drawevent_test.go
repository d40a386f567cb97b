package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository/mocks"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/service"
)

// newDrawEventService 构造带全套 Mock 依赖的被测 Service。
func newDrawEventService() (*service.DrawEventService, *mocks.EventCacheRepository, *mocks.StrokeRepository, *mocks.UserRepository, *mocks.BoardRepository) {
	mockCache := new(mocks.EventCacheRepository)
	mockStrokeRepo := new(mocks.StrokeRepository)
	mockUserRepo := new(mocks.UserRepository)
	mockBoardRepo := new(mocks.BoardRepository)
	svc := service.NewDrawEventService(mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo)
	return svc, mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo
}

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }

func sampleDrawEvent(boardID int64, displayName string) domain.StrokeEvent {
	return domain.StrokeEvent{
		BoardID:     boardID,
		DisplayName: displayName,
		Timestamp:   time.Now().UnixMilli(),
		Type:        domain.EventDraw,
		Tool:        domain.ToolPen,
		X:           12.5,
		Y:           42.0,
		BrushSize:   int64Ptr(3),
		BrushColor:  strPtr("#FF0000"),
		StrokeID:    "stroke-abc",
	}
}

// --- PublishDrawEvent ---

func TestDrawEventService_PublishDrawEvent_Success(t *testing.T) {
	// Arrange: 画板和用户都存在，所有步骤都应执行
	svc, mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo := newDrawEventService()
	ctx := context.Background()
	event := sampleDrawEvent(7, "alice")

	board := &domain.Board{ID: 7, Name: "sprint-board", OwnerID: 1}
	user := &domain.User{ID: 3, DisplayName: "alice"}

	mockCache.On("Publish", ctx, "drawing-session-7", mock.AnythingOfType("domain.StrokeEvent")).Return(nil).Once()
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.AnythingOfType("domain.StrokeEvent")).Return(nil).Once()
	mockCache.On("ExpireList", ctx, "drawing-events-board-7", service.ReplayBufferTTL).Return(nil).Once()
	mockBoardRepo.On("FindByID", ctx, int64(7)).Return(board, nil).Once()
	mockUserRepo.On("FindByDisplayName", ctx, "alice").Return(user, nil).Once()
	mockStrokeRepo.On("Save", ctx, mock.MatchedBy(func(stroke *domain.Stroke) bool {
		// 持久化记录应引用解析出的画板/用户 ID，坐标来自事件
		assert.Equal(t, int64(7), stroke.BoardID)
		assert.Equal(t, int64(3), stroke.UserID)
		assert.Equal(t, 12.5, stroke.XCord)
		assert.Equal(t, 42.0, stroke.YCord)
		assert.False(t, stroke.CreatedAt.IsZero(), "CreatedAt 应取服务端时间")
		return true
	})).Return(nil).Once()
	// 计数器递增应恰好发生一次
	mockBoardRepo.On("IncrementStrokeCount", ctx, int64(7)).Return(nil).Once()

	// Act
	returned, outcome, err := svc.PublishDrawEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, returned.ID, "缺失的事件 ID 应被补上")
	assert.Equal(t, event.StrokeID, returned.StrokeID)
	assert.True(t, outcome.Broadcast)
	assert.True(t, outcome.Buffered)
	assert.True(t, outcome.Persisted)
	assert.NoError(t, outcome.PersistErr)

	mockCache.AssertExpectations(t)
	mockStrokeRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockBoardRepo.AssertExpectations(t)
	mockBoardRepo.AssertNumberOfCalls(t, "IncrementStrokeCount", 1)
}

func TestDrawEventService_PublishDrawEvent_KeepsProvidedID(t *testing.T) {
	// Arrange: 事件自带 ID 时不应被覆盖
	svc, mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo := newDrawEventService()
	ctx := context.Background()
	event := sampleDrawEvent(7, "alice")
	event.ID = "client-supplied-id"

	mockCache.On("Publish", ctx, "drawing-session-7", mock.Anything).Return(nil).Once()
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.Anything).Return(nil).Once()
	mockCache.On("ExpireList", ctx, "drawing-events-board-7", service.ReplayBufferTTL).Return(nil).Once()
	mockBoardRepo.On("FindByID", ctx, int64(7)).Return(&domain.Board{ID: 7}, nil).Once()
	mockUserRepo.On("FindByDisplayName", ctx, "alice").Return(&domain.User{ID: 3, DisplayName: "alice"}, nil).Once()
	mockStrokeRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
	mockBoardRepo.On("IncrementStrokeCount", ctx, int64(7)).Return(nil).Once()

	// Act
	returned, _, err := svc.PublishDrawEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "client-supplied-id", returned.ID)
}

func TestDrawEventService_PublishDrawEvent_BoardMissing_SkipsPersistence(t *testing.T) {
	// Arrange: 画板不存在，广播和缓存仍应完成，持久化被静默跳过
	svc, mockCache, mockStrokeRepo, _, mockBoardRepo := newDrawEventService()
	ctx := context.Background()
	event := sampleDrawEvent(99, "alice")

	mockCache.On("Publish", ctx, "drawing-session-99", mock.Anything).Return(nil).Once()
	mockCache.On("AppendToList", ctx, "drawing-events-board-99", mock.Anything).Return(nil).Once()
	mockCache.On("ExpireList", ctx, "drawing-events-board-99", service.ReplayBufferTTL).Return(nil).Once()
	mockBoardRepo.On("FindByID", ctx, int64(99)).Return(nil, repository.ErrBoardNotFound).Once()

	// Act
	_, outcome, err := svc.PublishDrawEvent(ctx, event)

	// Assert: 调用不报错，缺口只体现在 Outcome 里
	assert.NoError(t, err, "引用完整性缺口不应成为调用错误")
	assert.True(t, outcome.Broadcast)
	assert.True(t, outcome.Buffered)
	assert.False(t, outcome.Persisted)
	assert.ErrorIs(t, outcome.PersistErr, service.ErrBoardNotFound)

	mockCache.AssertExpectations(t)
	mockBoardRepo.AssertExpectations(t)
	mockStrokeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockBoardRepo.AssertNotCalled(t, "IncrementStrokeCount", mock.Anything, mock.Anything)
}

func TestDrawEventService_PublishDrawEvent_UserMissing_SkipsPersistence(t *testing.T) {
	// Arrange: 用户不存在，行为与画板缺失一致
	svc, mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo := newDrawEventService()
	ctx := context.Background()
	event := sampleDrawEvent(7, "ghost")

	mockCache.On("Publish", ctx, "drawing-session-7", mock.Anything).Return(nil).Once()
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.Anything).Return(nil).Once()
	mockCache.On("ExpireList", ctx, "drawing-events-board-7", service.ReplayBufferTTL).Return(nil).Once()
	mockBoardRepo.On("FindByID", ctx, int64(7)).Return(&domain.Board{ID: 7}, nil).Once()
	mockUserRepo.On("FindByDisplayName", ctx, "ghost").Return(nil, repository.ErrUserNotFound).Once()

	// Act
	_, outcome, err := svc.PublishDrawEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	assert.True(t, outcome.Broadcast)
	assert.True(t, outcome.Buffered)
	assert.False(t, outcome.Persisted)
	assert.ErrorIs(t, outcome.PersistErr, service.ErrUserNotFound)

	mockStrokeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockBoardRepo.AssertNotCalled(t, "IncrementStrokeCount", mock.Anything, mock.Anything)
}

func TestDrawEventService_PublishDrawEvent_BroadcastFails_AbortsPipeline(t *testing.T) {
	// Arrange: 广播失败应中止后续所有步骤
	svc, mockCache, mockStrokeRepo, _, mockBoardRepo := newDrawEventService()
	ctx := context.Background()
	event := sampleDrawEvent(7, "alice")

	broadcastErr := errors.New("redis connection refused")
	mockCache.On("Publish", ctx, "drawing-session-7", mock.Anything).Return(broadcastErr).Once()

	// Act
	_, outcome, err := svc.PublishDrawEvent(ctx, event)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, broadcastErr)
	assert.False(t, outcome.Broadcast)
	assert.False(t, outcome.Buffered)
	assert.False(t, outcome.Persisted)

	mockCache.AssertNotCalled(t, "AppendToList", mock.Anything, mock.Anything, mock.Anything)
	mockStrokeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockBoardRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestDrawEventService_PublishDrawEvent_StoreFailure_Propagates(t *testing.T) {
	// Arrange: 存储本身不可用（非引用缺口）应原样上抛
	svc, mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo := newDrawEventService()
	ctx := context.Background()
	event := sampleDrawEvent(7, "alice")

	storeErr := errors.New("mysql has gone away")
	mockCache.On("Publish", ctx, "drawing-session-7", mock.Anything).Return(nil).Once()
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.Anything).Return(nil).Once()
	mockCache.On("ExpireList", ctx, "drawing-events-board-7", service.ReplayBufferTTL).Return(nil).Once()
	mockBoardRepo.On("FindByID", ctx, int64(7)).Return(&domain.Board{ID: 7}, nil).Once()
	mockUserRepo.On("FindByDisplayName", ctx, "alice").Return(&domain.User{ID: 3, DisplayName: "alice"}, nil).Once()
	mockStrokeRepo.On("Save", ctx, mock.Anything).Return(storeErr).Once()

	// Act
	_, outcome, err := svc.PublishDrawEvent(ctx, event)

	// Assert: 广播和缓存不回滚
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.True(t, outcome.Broadcast)
	assert.True(t, outcome.Buffered)
	assert.False(t, outcome.Persisted)
	mockBoardRepo.AssertNotCalled(t, "IncrementStrokeCount", mock.Anything, mock.Anything)
}

func TestDrawEventService_PublishDrawEvent_CounterFailure_RowStillPersisted(t *testing.T) {
	// Arrange: 笔划行写入成功但计数器递增失败
	svc, mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo := newDrawEventService()
	ctx := context.Background()
	event := sampleDrawEvent(7, "alice")

	counterErr := errors.New("lock wait timeout")
	mockCache.On("Publish", ctx, "drawing-session-7", mock.Anything).Return(nil).Once()
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.Anything).Return(nil).Once()
	mockCache.On("ExpireList", ctx, "drawing-events-board-7", service.ReplayBufferTTL).Return(nil).Once()
	mockBoardRepo.On("FindByID", ctx, int64(7)).Return(&domain.Board{ID: 7}, nil).Once()
	mockUserRepo.On("FindByDisplayName", ctx, "alice").Return(&domain.User{ID: 3, DisplayName: "alice"}, nil).Once()
	mockStrokeRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
	mockBoardRepo.On("IncrementStrokeCount", ctx, int64(7)).Return(counterErr).Once()

	// Act
	_, outcome, err := svc.PublishDrawEvent(ctx, event)

	// Assert: Persisted 标志反映行已写入，计数器留给对账任务
	require.Error(t, err)
	assert.ErrorIs(t, err, counterErr)
	assert.True(t, outcome.Persisted)
}

// --- PublishCursorEvent ---

func TestDrawEventService_PublishCursorEvent_NeverTouchesStrokeStore(t *testing.T) {
	// Arrange: 光标事件按用户推导键，不应有任何持久化调用
	svc, mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo := newDrawEventService()
	ctx := context.Background()
	event := domain.CursorEvent{DisplayName: "alice", X: 5, Y: 9}

	mockCache.On("Publish", ctx, "cursor-session-alice", mock.AnythingOfType("domain.CursorEvent")).Return(nil).Once()
	mockCache.On("AppendToList", ctx, "cursor-eventsalice", mock.AnythingOfType("domain.CursorEvent")).Return(nil).Once()
	mockCache.On("ExpireList", ctx, "cursor-eventsalice", service.ReplayBufferTTL).Return(nil).Once()

	// Act
	err := svc.PublishCursorEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	mockCache.AssertExpectations(t)
	mockStrokeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockBoardRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "FindByDisplayName", mock.Anything, mock.Anything)
}

// --- GetBoardStrokes ---

func TestDrawEventService_GetBoardStrokes_CacheHit_ReturnsVerbatimWithoutDB(t *testing.T) {
	// Arrange: 缓冲区命中，内容原样返回且不触碰笔划存储
	svc, mockCache, mockStrokeRepo, mockUserRepo, _ := newDrawEventService()
	ctx := context.Background()

	e1 := sampleDrawEvent(7, "alice")
	e1.ID = "evt-1"
	e2 := sampleDrawEvent(7, "bob")
	e2.ID = "evt-2"
	p1, _ := json.Marshal(e1)
	p2, _ := json.Marshal(e2)

	mockCache.On("RangeList", ctx, "drawing-events-board-7", int64(0), int64(-1)).
		Return([]string{string(p1), string(p2)}, nil).Once()

	// Act
	events, err := svc.GetBoardStrokes(ctx, 7, 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "evt-2", events[1].ID)
	assert.Equal(t, "alice", events[0].DisplayName)

	mockStrokeRepo.AssertNotCalled(t, "FindAllByBoardID", mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "AppendToList", mock.Anything, mock.Anything, mock.Anything)
}

func TestDrawEventService_GetBoardStrokes_CacheHit_SkipsMalformedEntries(t *testing.T) {
	// Arrange: 坏条目跳过，不让整次读取失败
	svc, mockCache, _, _, _ := newDrawEventService()
	ctx := context.Background()

	e1 := sampleDrawEvent(7, "alice")
	e1.ID = "evt-1"
	p1, _ := json.Marshal(e1)

	mockCache.On("RangeList", ctx, "drawing-events-board-7", int64(0), int64(-1)).
		Return([]string{"{not json", string(p1)}, nil).Once()

	// Act
	events, err := svc.GetBoardStrokes(ctx, 7, 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)
}

func TestDrawEventService_GetBoardStrokes_ColdPath_MapsAndBackfills(t *testing.T) {
	// Arrange: 缓冲区为空，回退到笔划存储并回填缓冲区
	svc, mockCache, mockStrokeRepo, mockUserRepo, _ := newDrawEventService()
	ctx := context.Background()
	now := time.Now()

	strokes := []domain.Stroke{
		{ID: 101, BoardID: 7, UserID: 3, Type: domain.EventStart, Tool: domain.ToolPen, XCord: 1, YCord: 2, CreatedAt: now},
		{ID: 102, BoardID: 7, UserID: 3, Type: domain.EventEnd, Tool: domain.ToolPen, XCord: 3, YCord: 4, CreatedAt: now},
		{ID: 103, BoardID: 7, UserID: 4, Type: domain.EventDraw, Tool: domain.ToolEraser, XCord: 5, YCord: 6, CreatedAt: now},
	}

	mockCache.On("RangeList", ctx, "drawing-events-board-7", int64(0), int64(-1)).Return([]string{}, nil).Once()
	mockStrokeRepo.On("FindAllByBoardID", ctx, int64(7)).Return(strokes, nil).Once()
	// 展示名按用户去重解析，各查一次
	mockUserRepo.On("FindByID", ctx, int64(3)).Return(&domain.User{ID: 3, DisplayName: "alice"}, nil).Once()
	mockUserRepo.On("FindByID", ctx, int64(4)).Return(&domain.User{ID: 4, DisplayName: "bob"}, nil).Once()

	var backfilled []domain.StrokeEvent
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.AnythingOfType("domain.StrokeEvent")).
		Run(func(args mock.Arguments) {
			backfilled = append(backfilled, args.Get(2).(domain.StrokeEvent))
		}).Return(nil).Times(3)
	mockCache.On("ExpireList", ctx, "drawing-events-board-7", service.ReplayBufferTTL).Return(nil).Once()

	// Act
	events, err := svc.GetBoardStrokes(ctx, 7, 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "101", events[0].ID)
	assert.Equal(t, "alice", events[0].DisplayName)
	assert.Equal(t, "bob", events[2].DisplayName)
	assert.Equal(t, now.UnixMilli(), events[0].Timestamp)
	// 回填顺序与返回顺序一致
	require.Len(t, backfilled, 3)
	assert.Equal(t, "101", backfilled[0].ID)
	assert.Equal(t, "103", backfilled[2].ID)

	mockUserRepo.AssertNumberOfCalls(t, "FindByID", 2)
	mockCache.AssertExpectations(t)
}

func TestDrawEventService_GetBoardStrokes_EmptyEverywhere_ReturnsEmptySlice(t *testing.T) {
	// Arrange: 缓存和数据库都没有数据
	svc, mockCache, mockStrokeRepo, _, _ := newDrawEventService()
	ctx := context.Background()

	mockCache.On("RangeList", ctx, "drawing-events-board-42", int64(0), int64(-1)).Return(nil, nil).Once()
	mockStrokeRepo.On("FindAllByBoardID", ctx, int64(42)).Return([]domain.Stroke{}, nil).Once()

	// Act
	events, err := svc.GetBoardStrokes(ctx, 42, 0)

	// Assert: 返回空切片而不是错误，也不回填
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
	mockCache.AssertNotCalled(t, "AppendToList", mock.Anything, mock.Anything, mock.Anything)
}

func TestDrawEventService_GetBoardStrokes_LimitUsesTailRange(t *testing.T) {
	// Arrange: limit > 0 时热路径只取缓冲区尾部
	svc, mockCache, _, _, _ := newDrawEventService()
	ctx := context.Background()

	e := sampleDrawEvent(7, "alice")
	e.ID = "evt-last"
	p, _ := json.Marshal(e)

	mockCache.On("RangeList", ctx, "drawing-events-board-7", int64(-50), int64(-1)).
		Return([]string{string(p)}, nil).Once()

	// Act
	events, err := svc.GetBoardStrokes(ctx, 7, 50)

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-last", events[0].ID)
}

func TestDrawEventService_GetBoardStrokes_ColdPath_LimitSlicesTail_BackfillsAll(t *testing.T) {
	// Arrange: 冷路径带 limit 时只返回尾部，但回填写入完整历史
	svc, mockCache, mockStrokeRepo, mockUserRepo, _ := newDrawEventService()
	ctx := context.Background()
	now := time.Now()

	strokes := []domain.Stroke{
		{ID: 1, BoardID: 7, UserID: 3, Type: domain.EventStart, Tool: domain.ToolPen, CreatedAt: now},
		{ID: 2, BoardID: 7, UserID: 3, Type: domain.EventDraw, Tool: domain.ToolPen, CreatedAt: now},
		{ID: 3, BoardID: 7, UserID: 3, Type: domain.EventEnd, Tool: domain.ToolPen, CreatedAt: now},
	}

	mockCache.On("RangeList", ctx, "drawing-events-board-7", int64(-2), int64(-1)).Return([]string{}, nil).Once()
	mockStrokeRepo.On("FindAllByBoardID", ctx, int64(7)).Return(strokes, nil).Once()
	mockUserRepo.On("FindByID", ctx, int64(3)).Return(&domain.User{ID: 3, DisplayName: "alice"}, nil).Once()
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.Anything).Return(nil).Times(3)
	mockCache.On("ExpireList", ctx, "drawing-events-board-7", service.ReplayBufferTTL).Return(nil).Once()

	// Act
	events, err := svc.GetBoardStrokes(ctx, 7, 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "2", events[0].ID)
	assert.Equal(t, "3", events[1].ID)
	mockCache.AssertNumberOfCalls(t, "AppendToList", 3)
}

func TestDrawEventService_GetBoardStrokes_BackfillFailure_DoesNotAffectResult(t *testing.T) {
	// Arrange: 回填失败只降级，不影响本次返回
	svc, mockCache, mockStrokeRepo, mockUserRepo, _ := newDrawEventService()
	ctx := context.Background()

	strokes := []domain.Stroke{
		{ID: 1, BoardID: 7, UserID: 3, Type: domain.EventStart, Tool: domain.ToolPen, CreatedAt: time.Now()},
	}

	mockCache.On("RangeList", ctx, "drawing-events-board-7", int64(0), int64(-1)).Return([]string{}, nil).Once()
	mockStrokeRepo.On("FindAllByBoardID", ctx, int64(7)).Return(strokes, nil).Once()
	mockUserRepo.On("FindByID", ctx, int64(3)).Return(&domain.User{ID: 3, DisplayName: "alice"}, nil).Once()
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.Anything).Return(errors.New("redis write failed")).Once()

	// Act
	events, err := svc.GetBoardStrokes(ctx, 7, 0)

	// Assert: 回填中止后不再设置 TTL
	require.NoError(t, err)
	require.Len(t, events, 1)
	mockCache.AssertNotCalled(t, "ExpireList", mock.Anything, mock.Anything, mock.Anything)
}

// --- 端到端手势序列 ---

func TestDrawEventService_GestureSequence_AppendsInOrder(t *testing.T) {
	// Arrange: 一个完整手势 start/draw/end，共享同一个 strokeId
	svc, mockCache, mockStrokeRepo, mockUserRepo, mockBoardRepo := newDrawEventService()
	ctx := context.Background()

	board := &domain.Board{ID: 7}
	user := &domain.User{ID: 3, DisplayName: "alice"}

	var appended []domain.StrokeEvent
	mockCache.On("Publish", ctx, "drawing-session-7", mock.Anything).Return(nil).Times(3)
	mockCache.On("AppendToList", ctx, "drawing-events-board-7", mock.AnythingOfType("domain.StrokeEvent")).
		Run(func(args mock.Arguments) {
			appended = append(appended, args.Get(2).(domain.StrokeEvent))
		}).Return(nil).Times(3)
	mockCache.On("ExpireList", ctx, "drawing-events-board-7", service.ReplayBufferTTL).Return(nil).Times(3)
	mockBoardRepo.On("FindByID", ctx, int64(7)).Return(board, nil).Times(3)
	mockUserRepo.On("FindByDisplayName", ctx, "alice").Return(user, nil).Times(3)
	mockStrokeRepo.On("Save", ctx, mock.Anything).Return(nil).Times(3)
	mockBoardRepo.On("IncrementStrokeCount", ctx, int64(7)).Return(nil).Times(3)

	gesture := []domain.DrawEventType{domain.EventStart, domain.EventDraw, domain.EventEnd}

	// Act
	for _, eventType := range gesture {
		event := sampleDrawEvent(7, "alice")
		event.Type = eventType
		event.StrokeID = "gesture-1"
		_, outcome, err := svc.PublishDrawEvent(ctx, event)
		require.NoError(t, err)
		require.True(t, outcome.Persisted)
	}

	// Assert: 缓冲区追加顺序与发布顺序一致，strokeId 贯穿整个手势
	require.Len(t, appended, 3)
	assert.Equal(t, domain.EventStart, appended[0].Type)
	assert.Equal(t, domain.EventDraw, appended[1].Type)
	assert.Equal(t, domain.EventEnd, appended[2].Type)
	for _, event := range appended {
		assert.Equal(t, "gesture-1", event.StrokeID)
		assert.Equal(t, int64(7), event.BoardID)
	}
	mockBoardRepo.AssertNumberOfCalls(t, "IncrementStrokeCount", 3)
}
