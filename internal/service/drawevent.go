package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
)

// Redis 频道/列表键名沿用既有前端和运维约定，不要改动。
const (
	drawingChannelPrefix = "drawing-session-"
	cursorChannelPrefix  = "cursor-session-"

	cursorEventsPrefix  = "cursor-events"
	drawingEventsPrefix = "drawing-events-board-"

	// ReplayBufferTTL 是回放缓冲区的过期窗口。每次追加都会重置，
	// 因此活跃画板的历史在会话期间不会过期。
	ReplayBufferTTL = time.Hour
)

// DrawChannelKey 返回指定画板的广播频道键，出口适配器订阅该频道。
func DrawChannelKey(boardID int64) string {
	return drawingChannelPrefix + strconv.FormatInt(boardID, 10)
}

// CursorChannelKey 返回指定用户的光标广播频道键。
func CursorChannelKey(displayName string) string {
	return cursorChannelPrefix + displayName
}

func drawEventsKey(boardID int64) string {
	return drawingEventsPrefix + strconv.FormatInt(boardID, 10)
}

func cursorEventsKey(displayName string) string {
	return cursorEventsPrefix + displayName
}

// PublishOutcome 记录一次发布中各个独立可失败步骤的结果。
// 广播 → 缓存追加 → 尽力持久化 是一个没有共享事务的 saga 式序列：
// 已发生的步骤不会被回滚，调用方和测试可以据此断言到底发生了哪些副作用。
type PublishOutcome struct {
	Broadcast bool // 事件已发布到广播频道
	Buffered  bool // 事件已追加到回放缓冲区
	Persisted bool // 笔划已落库（计数器递增不影响该标志）

	// PersistErr 记录持久化步骤的失败原因。引用完整性缺口
	// (ErrBoardNotFound / ErrUserNotFound) 只出现在这里，不会成为调用错误。
	PersistErr error
}

// DrawEventService 是实时绘图事件分发管线的核心编排者：
// 接收入站的笔划/光标事件，广播给同画板的其他查看者，维护短期回放缓冲，
// 并对笔划做尽力而为（非事务）的持久化；历史读取走缓存优先、落库回退。
type DrawEventService struct {
	eventCache repository.EventCacheRepository
	strokeRepo repository.StrokeRepository
	userRepo   repository.UserRepository
	boardRepo  repository.BoardRepository
}

// NewDrawEventService 创建 DrawEventService 实例。
func NewDrawEventService(
	eventCache repository.EventCacheRepository,
	strokeRepo repository.StrokeRepository,
	userRepo repository.UserRepository,
	boardRepo repository.BoardRepository,
) *DrawEventService {
	if eventCache == nil || strokeRepo == nil || userRepo == nil || boardRepo == nil {
		panic("All repositories must be non-nil for DrawEventService")
	}
	return &DrawEventService{
		eventCache: eventCache,
		strokeRepo: strokeRepo,
		userRepo:   userRepo,
		boardRepo:  boardRepo,
	}
}

// PublishDrawEvent 处理一个入站笔划事件：
//  1. 无条件广播到画板频道（fire-and-forget）；
//  2. 追加到画板回放缓冲区并重置 1 小时 TTL；
//  3. 尽力持久化：解析画板和用户，命中则落库并原子递增画板计数器，
//     任何一个解析失败则跳过持久化——实时协作不因引用完整性缺口而中断。
//
// 返回原始事件（副作用全部在内部完成，回显由传输层转发给各端）。
// 广播或缓存失败会中止剩余步骤并作为错误返回；持久化失败只记录在
// Outcome 里，唯一例外是存储本身不可用（非引用缺口），它会原样上抛。
func (s *DrawEventService) PublishDrawEvent(ctx context.Context, event domain.StrokeEvent) (domain.StrokeEvent, PublishOutcome, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	logCtx := logrus.WithFields(logrus.Fields{"board_id": event.BoardID, "event_id": event.ID})
	logCtx.Debug("Publishing draw event")

	var outcome PublishOutcome

	if err := s.eventCache.Publish(ctx, DrawChannelKey(event.BoardID), event); err != nil {
		logCtx.WithError(err).Error("Failed to broadcast draw event")
		return event, outcome, fmt.Errorf("broadcast draw event: %w", err)
	}
	outcome.Broadcast = true

	bufferKey := drawEventsKey(event.BoardID)
	if err := s.eventCache.AppendToList(ctx, bufferKey, event); err != nil {
		logCtx.WithError(err).Error("Failed to append draw event to replay buffer")
		return event, outcome, fmt.Errorf("buffer draw event: %w", err)
	}
	outcome.Buffered = true
	if err := s.eventCache.ExpireList(ctx, bufferKey, ReplayBufferTTL); err != nil {
		// TTL 重置失败不值得中断发布；缓冲区最坏情况下提前过期，历史读取会回退到数据库
		logCtx.WithError(err).Warn("Failed to reset replay buffer TTL")
	}

	persisted, err := s.persistStroke(ctx, event)
	outcome.Persisted = persisted
	outcome.PersistErr = err
	if err != nil {
		if errors.Is(err, ErrBoardNotFound) || errors.Is(err, ErrUserNotFound) {
			// 引用完整性缺口：事件已广播已缓存，静默跳过持久化
			logCtx.WithError(err).Warn("Skipping stroke persistence")
			return event, outcome, nil
		}
		logCtx.WithError(err).Error("Stroke persistence failed")
		return event, outcome, err
	}

	return event, outcome, nil
}

// persistStroke 解析画板和用户并落库。返回值第一项表示笔划行是否已写入。
func (s *DrawEventService) persistStroke(ctx context.Context, event domain.StrokeEvent) (bool, error) {
	board, err := s.boardRepo.FindByID(ctx, event.BoardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, fmt.Errorf("%w: %d", ErrBoardNotFound, event.BoardID)
		}
		return false, fmt.Errorf("resolve board %d: %w", event.BoardID, err)
	}
	user, err := s.userRepo.FindByDisplayName(ctx, event.DisplayName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, fmt.Errorf("%w: %s", ErrUserNotFound, event.DisplayName)
		}
		return false, fmt.Errorf("resolve user %q: %w", event.DisplayName, err)
	}

	// CreatedAt 用服务端时间，客户端时间戳只存在于事件里，两者允许偏离
	stroke := domain.NewStrokeFromEvent(event, board, user, time.Now())
	if err := s.strokeRepo.Save(ctx, stroke); err != nil {
		return false, err
	}

	if err := s.boardRepo.IncrementStrokeCount(ctx, board.ID); err != nil {
		// 笔划行已经写入；计数器只是活动指标，后台对账任务会修复
		return true, fmt.Errorf("increment stroke count for board %d: %w", board.ID, err)
	}
	return true, nil
}

// PublishCursorEvent 处理一个入站光标事件：按用户（而不是画板）推导
// 频道和缓冲区键，广播并追加到 1 小时 TTL 的缓冲区。
// 光标是纯瞬态遥测，不存在任何持久化步骤。
func (s *DrawEventService) PublishCursorEvent(ctx context.Context, event domain.CursorEvent) error {
	logCtx := logrus.WithField("display_name", event.DisplayName)
	logCtx.Debug("Publishing cursor event")

	if err := s.eventCache.Publish(ctx, CursorChannelKey(event.DisplayName), event); err != nil {
		logCtx.WithError(err).Error("Failed to broadcast cursor event")
		return fmt.Errorf("broadcast cursor event: %w", err)
	}

	bufferKey := cursorEventsKey(event.DisplayName)
	if err := s.eventCache.AppendToList(ctx, bufferKey, event); err != nil {
		logCtx.WithError(err).Error("Failed to append cursor event to buffer")
		return fmt.Errorf("buffer cursor event: %w", err)
	}
	if err := s.eventCache.ExpireList(ctx, bufferKey, ReplayBufferTTL); err != nil {
		logCtx.WithError(err).Warn("Failed to reset cursor buffer TTL")
	}
	return nil
}

// GetBoardStrokes 返回指定画板的历史笔划事件。
//
// 缓存命中时按原样返回缓冲区内容，完全不触碰笔划存储（活跃会话的低延迟
// 快路径）。缓存为空（冷画板或缓冲区已过期）时查询笔划存储，把持久化
// 记录映射回事件形态，并在结果非空时以 1 小时 TTL 回填缓冲区，让后续
// 读取回到快路径。两边都没有数据时返回空切片，永不返回"未找到"类错误。
//
// limit > 0 时只返回最近的 limit 条；回填始终写入完整历史，
// 避免带限制的读取污染之后的全量读取。
func (s *DrawEventService) GetBoardStrokes(ctx context.Context, boardID int64, limit int) ([]domain.StrokeEvent, error) {
	logCtx := logrus.WithField("board_id", boardID)
	logCtx.Debug("Getting board strokes")

	bufferKey := drawEventsKey(boardID)
	var start int64
	if limit > 0 {
		start = int64(-limit)
	}
	cached, err := s.eventCache.RangeList(ctx, bufferKey, start, -1)
	if err != nil {
		return nil, fmt.Errorf("read replay buffer for board %d: %w", boardID, err)
	}
	if len(cached) > 0 {
		return decodeStrokeEvents(cached, logCtx), nil
	}

	strokes, err := s.strokeRepo.FindAllByBoardID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("load strokes for board %d: %w", boardID, err)
	}
	if len(strokes) == 0 {
		return []domain.StrokeEvent{}, nil
	}

	events := s.mapStrokesToEvents(ctx, strokes)

	// 回填完整历史，让后续读取保持在快路径上；失败只降级为慢路径，不影响本次结果
	backfillFailed := false
	for _, event := range events {
		if err := s.eventCache.AppendToList(ctx, bufferKey, event); err != nil {
			logCtx.WithError(err).Warn("Failed to backfill replay buffer")
			backfillFailed = true
			break
		}
	}
	if !backfillFailed {
		if err := s.eventCache.ExpireList(ctx, bufferKey, ReplayBufferTTL); err != nil {
			logCtx.WithError(err).Warn("Failed to set TTL on backfilled replay buffer")
		}
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}

// mapStrokesToEvents 将持久化记录映射回事件形态，按用户 ID 批量解析展示名。
func (s *DrawEventService) mapStrokesToEvents(ctx context.Context, strokes []domain.Stroke) []domain.StrokeEvent {
	displayNames := make(map[int64]string)
	events := make([]domain.StrokeEvent, 0, len(strokes))
	for _, stroke := range strokes {
		name, ok := displayNames[stroke.UserID]
		if !ok {
			if user, err := s.userRepo.FindByID(ctx, stroke.UserID); err == nil {
				name = user.DisplayName
			} else {
				// 用户可能已被删除；历史回放仍然包含其笔划，只是失去归属
				logrus.WithFields(logrus.Fields{"user_id": stroke.UserID}).WithError(err).Warn("Failed to resolve display name for stroke history")
			}
			displayNames[stroke.UserID] = name
		}
		events = append(events, stroke.ToEvent(name))
	}
	return events
}

// decodeStrokeEvents 逐条解码缓存负载，坏条目跳过而不是让整次读取失败。
func decodeStrokeEvents(payloads []string, logCtx *logrus.Entry) []domain.StrokeEvent {
	events := make([]domain.StrokeEvent, 0, len(payloads))
	for _, payload := range payloads {
		var event domain.StrokeEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			logCtx.WithError(err).Warn("Skipping malformed replay buffer entry")
			continue
		}
		events = append(events, event)
	}
	return events
}
