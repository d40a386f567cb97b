package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client 代表一个连接到 Hub 的 WebSocket 客户端。
// 一条连接固定绑定到一个画板。
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	boardID     int64  // 客户端所在的画板 ID
	userID      int64  // 客户端的用户 ID
	displayName string // 事件归属使用的展示名
	send        chan []byte
	sendOnce    sync.Once // 保证 send 通道只关闭一次
}

// NewClient 创建一个新的 Client 实例
func NewClient(hub *Hub, conn *websocket.Conn, boardID int64, userID int64, displayName string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		boardID:     boardID,
		userID:      userID,
		displayName: displayName,
		send:        make(chan []byte, 256),
	}
}

// Run 启动客户端的读写 goroutine
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump 从 WebSocket 连接读取数据帧并同步交给 Hub 处理。
// 它在自己的 goroutine 中运行；一个连接只有这一个读 goroutine，
// 因此同一连接的帧严格按到达顺序进入发布管线。
func (c *Client) ReadPump() {
	defer func() {
		// 注销走非阻塞队列；Hub 已停止时请求被拒绝，此时 Hub 的
		// Stop 已经（或正在）清理所有客户端，这里只需关闭连接
		if !c.hub.QueueMessage(HubMessage{Type: "unregister", BoardID: c.boardID, UserID: c.userID, Client: c}) {
			logrus.WithFields(logrus.Fields{"user_id": c.userID, "board_id": c.boardID}).Debug("Hub rejected unregister request (stopped or busy)")
		}
		c.CloseConn()
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "board_id": c.boardID}).Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait)) // 收到 Pong 后重置读取超时
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"user_id": c.userID, "board_id": c.boardID})
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}

		if messageType != websocket.TextMessage {
			logrus.WithFields(logrus.Fields{"user_id": c.userID, "board_id": c.boardID}).Debugf("Received non-text message type: %d", messageType)
			continue
		}

		// 同步处理：下一帧在当前帧发布完成前不会被读取
		c.hub.HandleInbound(c, message)
	}
}

// WritePump 将消息从 Client 的 send 通道泵送到 WebSocket 连接。
// 它在自己的 goroutine 中运行。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.CloseConn()
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "board_id": c.boardID}).Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// send 通道被 Hub 关闭了（通常在注销时）
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithFields(logrus.Fields{"user_id": c.userID, "board_id": c.boardID}).WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithFields(logrus.Fields{"user_id": c.userID, "board_id": c.boardID}).WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}

// enqueue 将出站消息放入发送队列 (非阻塞)。
// 队列满时丢弃该消息，慢客户端由 WritePump 的写超时处理。
func (c *Client) enqueue(message []byte, logCtx *logrus.Entry) {
	defer func() {
		// send 可能在入队瞬间被并发注销关闭；这条消息随客户端一起丢弃
		if r := recover(); r != nil {
			logCtx.Warn("Client send channel closed during enqueue, dropping message")
		}
	}()
	select {
	case c.send <- message:
	default:
		logCtx.WithField("receiver_user_id", c.userID).Warn("Client send channel full, dropping message")
	}
}

// closeSend 幂等地关闭发送通道。
func (c *Client) closeSend() {
	c.sendOnce.Do(func() {
		close(c.send)
	})
}

func (c *Client) BoardID() int64      { return c.boardID }
func (c *Client) UserID() int64       { return c.userID }
func (c *Client) DisplayName() string { return c.displayName }

// CloseConn 关闭底层 WebSocket 连接（连接未建立时为 no-op）。
func (c *Client) CloseConn() {
	if c.conn != nil {
		c.conn.Close()
	}
}
