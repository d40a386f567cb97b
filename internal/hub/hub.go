package hub

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/domain"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/dto"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/service"
)

// 包级别的 WebSocket 常量，供 hub 和 client 包内使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// HubMessage 定义了在 Hub 内部通道传递的生命周期消息。
// 入站数据帧不走这个通道：它们由 ReadPump 直接交给 HandleInbound，
// 以保证同一连接的事件按到达顺序处理。
type HubMessage struct {
	Type    string  // "register", "unregister"
	BoardID int64   // 画板 ID
	UserID  int64   // 来源用户 ID
	Client  *Client // 注册/注销的客户端
}

// subscription 是一条带引用计数的频道订阅；计数归零时关闭并回收。
type subscription struct {
	sub  repository.Subscription
	refs int
}

// Hub 维护活跃客户端集合，并把 Redis 频道上的事件中继给本实例的
// 客户端。每个画板的绘图频道和每个(画板, 用户)的光标频道各占一条
// 订阅，随首个客户端建立、随最后一个客户端离开关闭。
type Hub struct {
	// 内部通道，处理客户端的注册/注销
	messageChan chan HubMessage

	// done 关闭后 Hub 停止接收消息。messageChan 自身永不关闭，
	// 因此晚到的 QueueMessage 调用不会 panic，只会被拒绝。
	done     chan struct{}
	stopOnce sync.Once

	// 客户端集合，按 BoardID 组织
	// map[boardID]map[*Client]bool
	boards   map[int64]map[*Client]bool
	boardsMu sync.RWMutex

	// 活跃订阅；drawSubs 按画板 ID 索引，cursorSubs 按 "boardID/displayName" 索引
	drawSubs   map[int64]*subscription
	cursorSubs map[string]*subscription
	subsMu     sync.Mutex

	drawService *service.DrawEventService
	eventCache  repository.EventCacheRepository
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(drawService *service.DrawEventService, eventCache repository.EventCacheRepository) *Hub {
	if drawService == nil {
		panic("DrawEventService cannot be nil for Hub")
	}
	if eventCache == nil {
		panic("EventCacheRepository cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		done:        make(chan struct{}),
		boards:      make(map[int64]map[*Client]bool),
		drawSubs:    make(map[int64]*subscription),
		cursorSubs:  make(map[string]*subscription),
		drawService: drawService,
		eventCache:  eventCache,
	}
}

// Run 启动 Hub 的主事件处理循环。
// 它应该在一个单独的 goroutine 中运行。
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for {
		select {
		case <-h.done:
			log.Info("Hub is shutting down...")
			return
		case msg := <-h.messageChan:
			switch msg.Type {
			case "register":
				h.registerClient(msg.Client)
			case "unregister":
				h.unregisterClient(msg.Client)
			default:
				log.Warnf("Hub: Received unknown message type: %s from user %d on board %d", msg.Type, msg.UserID, msg.BoardID)
			}
		}
	}
}

// registerClient 处理客户端注册逻辑
func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	boardID := client.BoardID()
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":     boardID,
		"user_id":      client.UserID(),
		"display_name": client.DisplayName(),
		"action":       "registerClient",
	})

	h.boardsMu.Lock()
	if _, ok := h.boards[boardID]; !ok {
		h.boards[boardID] = make(map[*Client]bool)
		logCtx.Info("Client list created for new board")
	}
	h.boards[boardID][client] = true
	h.boardsMu.Unlock()
	logCtx.Info("Client registered to Hub")

	h.acquireSubscriptions(client)
}

// unregisterClient 处理客户端注销逻辑
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to unregister a nil client")
		return
	}
	boardID := client.BoardID()
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":     boardID,
		"user_id":      client.UserID(),
		"display_name": client.DisplayName(),
		"action":       "unregisterClient",
	})

	h.boardsMu.Lock()
	if boardClients, boardExists := h.boards[boardID]; boardExists {
		if _, clientExists := boardClients[client]; clientExists {
			delete(boardClients, client)
			logCtx.Debug("Client removed from board map")

			// 无条件关闭 send 通道（幂等），WritePump 随之退出；
			// 通道里残留的出站消息直接丢弃
			client.closeSend()
			logCtx.Info("Client send channel closed")

			if len(boardClients) == 0 {
				delete(h.boards, boardID)
				logCtx.Info("Board empty, removed from Hub")
			}
		} else {
			logCtx.Warn("Client not found in board during unregister")
		}
	} else {
		logCtx.Warn("Board not found during client unregister")
	}
	h.boardsMu.Unlock()

	h.releaseSubscriptions(client)
	logCtx.Info("Client unregistered from Hub")
}

// acquireSubscriptions 为客户端建立（或复用）画板频道和光标频道的订阅。
func (h *Hub) acquireSubscriptions(client *Client) {
	boardID := client.BoardID()

	h.subsMu.Lock()
	defer h.subsMu.Unlock()

	if entry, ok := h.drawSubs[boardID]; ok {
		entry.refs++
	} else {
		sub := h.eventCache.Subscribe(context.Background(), service.DrawChannelKey(boardID))
		h.drawSubs[boardID] = &subscription{sub: sub, refs: 1}
		go h.relay(sub, boardID, dto.MessageTypeDraw)
	}

	cursorKey := cursorSubKey(boardID, client.DisplayName())
	if entry, ok := h.cursorSubs[cursorKey]; ok {
		entry.refs++
	} else {
		sub := h.eventCache.Subscribe(context.Background(), service.CursorChannelKey(client.DisplayName()))
		h.cursorSubs[cursorKey] = &subscription{sub: sub, refs: 1}
		go h.relay(sub, boardID, dto.MessageTypeCursor)
	}
}

// releaseSubscriptions 释放客户端持有的订阅引用，计数归零时关闭订阅。
func (h *Hub) releaseSubscriptions(client *Client) {
	boardID := client.BoardID()

	h.subsMu.Lock()
	defer h.subsMu.Unlock()

	if entry, ok := h.drawSubs[boardID]; ok {
		entry.refs--
		if entry.refs <= 0 {
			_ = entry.sub.Close()
			delete(h.drawSubs, boardID)
		}
	}

	cursorKey := cursorSubKey(boardID, client.DisplayName())
	if entry, ok := h.cursorSubs[cursorKey]; ok {
		entry.refs--
		if entry.refs <= 0 {
			_ = entry.sub.Close()
			delete(h.cursorSubs, cursorKey)
		}
	}
}

// relay 将一条订阅上的事件逐条包上信封并广播给画板的本地客户端。
// 订阅关闭后 goroutine 自然退出。
func (h *Hub) relay(sub repository.Subscription, boardID int64, messageType string) {
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":     boardID,
		"message_type": messageType,
		"component":    "hub",
	})
	logCtx.Debug("Channel relay started")

	for payload := range sub.Messages() {
		data, err := json.Marshal(dto.BroadcastDTO{Type: messageType, Payload: payload})
		if err != nil {
			logCtx.WithError(err).Error("Failed to marshal broadcast envelope")
			continue
		}
		// 不排除任何客户端：发布方也通过频道收到回显
		h.broadcast(boardID, data, nil)
	}
	logCtx.Debug("Channel relay stopped")
}

// HandleInbound 处理一个客户端的入站数据帧。
// 由该客户端的 ReadPump 同步调用：一个连接只有一个读 goroutine，
// 因此同一连接的事件严格按到达顺序进入发布管线（缓冲区追加序 =
// 发送序）；不同连接之间不做顺序保证。
func (h *Hub) HandleInbound(client *Client, data []byte) {
	if client == nil {
		logrus.Error("Hub: HandleInbound called with nil client")
		return
	}
	ctx := context.Background()
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":  client.BoardID(),
		"user_id":   client.UserID(),
		"operation": "handleInbound",
	})
	logCtx.Debugf("Processing client message (data size: %d)", len(data))

	var envelope dto.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		logCtx.WithError(err).Warn("Failed to decode message envelope")
		h.sendError(client, "invalid message format")
		return
	}

	switch envelope.Type {
	case dto.MessageTypeDraw:
		var event domain.StrokeEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			logCtx.WithError(err).Warn("Failed to decode draw event payload")
			h.sendError(client, "invalid draw event")
			return
		}
		// 事件归属画板以连接所在画板为准，防止跨画板注入
		event.BoardID = client.BoardID()
		if _, _, err := h.drawService.PublishDrawEvent(ctx, event); err != nil {
			logCtx.WithError(err).Error("Failed to publish draw event")
			h.sendError(client, "failed to publish draw event")
		}

	case dto.MessageTypeCursor:
		var event domain.CursorEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			logCtx.WithError(err).Warn("Failed to decode cursor event payload")
			h.sendError(client, "invalid cursor event")
			return
		}
		if err := h.drawService.PublishCursorEvent(ctx, event); err != nil {
			logCtx.WithError(err).Error("Failed to publish cursor event")
			h.sendError(client, "failed to publish cursor event")
		}

	case dto.MessageTypeHistory:
		var req dto.HistoryRequest
		if err := json.Unmarshal(envelope.Payload, &req); err != nil {
			logCtx.WithError(err).Warn("Failed to decode history request")
			h.sendError(client, "invalid history request")
			return
		}
		if req.BoardID == 0 {
			req.BoardID = client.BoardID()
		}
		events, err := h.drawService.GetBoardStrokes(ctx, req.BoardID, req.Limit)
		if err != nil {
			// 历史读取失败降级为空列表，客户端仍能进入实时会话
			logCtx.WithError(err).Error("Failed to load board history, degrading to empty list")
			events = []domain.StrokeEvent{}
		}
		reply, err := json.Marshal(dto.HistoryDTO{Type: dto.MessageTypeHistory, BoardID: req.BoardID, Events: events})
		if err != nil {
			logCtx.WithError(err).Error("Failed to marshal history reply")
			return
		}
		// 历史只发给请求方，不广播
		h.sendToClient(client, reply)

	default:
		logCtx.Warnf("Unknown envelope type: %s", envelope.Type)
		h.sendError(client, "unknown message type")
	}
}

// broadcast 将消息发送给指定画板的所有客户端，sender 非 nil 时排除之
func (h *Hub) broadcast(boardID int64, message []byte, sender *Client) {
	h.boardsMu.RLock()
	boardClients, ok := h.boards[boardID]
	// 复制接收者列表，避免长时间持有锁
	clientsToSend := make([]*Client, 0, len(boardClients))
	if ok {
		for client := range boardClients {
			if client != sender {
				clientsToSend = append(clientsToSend, client)
			}
		}
	}
	h.boardsMu.RUnlock()

	if !ok || len(clientsToSend) == 0 {
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":        boardID,
		"message_size":    len(message),
		"recipient_count": len(clientsToSend),
	})
	logCtx.Debug("Broadcasting message to clients")

	for _, client := range clientsToSend {
		client.enqueue(message, logCtx)
	}
}

// sendToClient 将消息放入单个客户端的发送队列 (非阻塞)。
func (h *Hub) sendToClient(client *Client, message []byte) {
	if client == nil {
		return
	}
	client.enqueue(message, logrus.WithFields(logrus.Fields{
		"board_id": client.BoardID(),
		"user_id":  client.UserID(),
	}))
}

// sendError 向单个客户端发送错误消息。
func (h *Hub) sendError(client *Client, message string) {
	data, err := json.Marshal(dto.ErrorDTO{Type: dto.MessageTypeError, Message: message})
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal error message")
		return
	}
	h.sendToClient(client, data)
}

// QueueMessage 将生命周期消息放入 Hub 的处理队列 (非阻塞)。
// Hub 停止后调用安全：消息被拒绝而不是 panic。
// 返回 true 如果消息成功入队，false 如果 Hub 已停止或队列已满。
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case <-h.done:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"board_id":     msg.BoardID,
			"user_id":      msg.UserID,
		}).Debug("Hub stopped, rejecting message")
		return false
	default:
	}

	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"board_id":     msg.BoardID,
			"user_id":      msg.UserID,
		}).Warn("Hub message channel full, dropping message")
		return false
	}
}

// Stop 停止 Hub：关闭所有频道订阅、停止主循环，并强制关闭所有
// 客户端连接让读写 goroutine 退出。messageChan 保持打开，晚到的
// 消息（例如 ReadPump 退出时的注销请求）被 QueueMessage 拒绝即可。
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.subsMu.Lock()
		for boardID, entry := range h.drawSubs {
			_ = entry.sub.Close()
			delete(h.drawSubs, boardID)
		}
		for key, entry := range h.cursorSubs {
			_ = entry.sub.Close()
			delete(h.cursorSubs, key)
		}
		h.subsMu.Unlock()

		h.boardsMu.Lock()
		for boardID, boardClients := range h.boards {
			for client := range boardClients {
				client.closeSend()
				client.CloseConn()
			}
			delete(h.boards, boardID)
		}
		h.boardsMu.Unlock()
	})
}

func cursorSubKey(boardID int64, displayName string) string {
	return strconv.FormatInt(boardID, 10) + "/" + displayName
}
