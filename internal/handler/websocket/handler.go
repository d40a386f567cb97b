package websocket

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/hub"
	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/service"
)

// WebSocketHandler 负责处理 WebSocket 升级请求和客户端注册
type WebSocketHandler struct {
	upgrader     websocket.Upgrader
	hub          *hub.Hub
	boardService *service.BoardService // 升级前验证画板存在
}

// NewWebSocketHandler 创建 WebSocketHandler 实例
func NewWebSocketHandler(h *hub.Hub, boardService *service.BoardService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if boardService == nil {
		panic("BoardService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// 允许所有来源连接 (生产环境应配置具体的允许来源)
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return &WebSocketHandler{
		upgrader:     upgrader,
		hub:          h,
		boardService: boardService,
	}
}

// HandleConnection 处理 WebSocket 连接请求
// URL 预期格式: /ws/board/{boardId}
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	logCtx := logrus.WithField("handler", "websocket")

	// 1. 获取认证身份 (由 Auth 中间件设置)
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logCtx.Warn("WS Handler: User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return // 此时还未升级到 WebSocket，返回 HTTP 错误
	}
	userID, ok := userIDAny.(int64)
	if !ok {
		logCtx.Error("WS Handler: User ID in context is not int64")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	displayNameAny, _ := c.Get("display_name")
	displayName, _ := displayNameAny.(string)
	logCtx = logCtx.WithFields(logrus.Fields{"user_id": userID, "display_name": displayName})

	// 2. 获取并验证画板 ID (从 URL 参数)
	boardIDStr := c.Param("boardId")
	boardID, err := strconv.ParseInt(boardIDStr, 10, 64)
	if err != nil {
		logCtx.WithError(err).Warnf("WS Handler: Invalid board ID format: %s", boardIDStr)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}
	logCtx = logCtx.WithField("board_id", boardID)

	// 3. 验证画板是否存在
	if _, err := h.boardService.GetBoard(c.Request.Context(), boardID); err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			logCtx.WithError(err).Warn("WS Handler: Board not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		} else {
			logCtx.WithError(err).Error("WS Handler: Error checking board existence")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate board"})
		}
		return
	}
	logCtx.Debug("WS Handler: Board validated")

	// 4. 升级 HTTP 连接到 WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失败时已自动写出 HTTP 错误响应，这里只记录日志
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	// 5. 创建 Client 并注册到 Hub
	client := hub.NewClient(h.hub, conn, boardID, userID, displayName)
	registerMsg := hub.HubMessage{
		Type:    "register",
		Client:  client,
		BoardID: client.BoardID(),
		UserID:  client.UserID(),
	}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		client.CloseConn()
		return
	}
	logCtx.Info("WS Handler: Client registration request queued to Hub")

	// 6. 启动客户端读写 goroutine，后续通信由 pump 负责
	client.Run()
}
