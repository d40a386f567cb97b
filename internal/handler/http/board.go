package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/service"
)

// BoardHandler 封装画板目录和历史读取的 HTTP 处理逻辑
type BoardHandler struct {
	boardService *service.BoardService
	drawService  *service.DrawEventService
}

// NewBoardHandler 创建 BoardHandler 实例
func NewBoardHandler(boardService *service.BoardService, drawService *service.DrawEventService) *BoardHandler {
	if boardService == nil {
		panic("BoardService cannot be nil for BoardHandler")
	}
	if drawService == nil {
		panic("DrawEventService cannot be nil for BoardHandler")
	}
	return &BoardHandler{boardService: boardService, drawService: drawService}
}

// CreateBoardRequest 定义创建画板请求的结构体
type CreateBoardRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateBoard 处理创建画板请求。所有者取自认证身份。
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateBoard: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name required")
		return
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	ownerID, _ := userIDAny.(int64)

	board, err := h.boardService.CreateBoard(c.Request.Context(), req.Name, ownerID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"board_id": board.ID, "owner_id": ownerID}).Info("Handler.CreateBoard: Board created")
	SuccessResponse(c, http.StatusCreated, board)
}

// ListBoards 返回所有画板
func (h *BoardHandler) ListBoards(c *gin.Context) {
	boards, err := h.boardService.ListBoards(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, boards)
}

// GetBoard 根据 ID 返回单个画板
func (h *BoardHandler) GetBoard(c *gin.Context) {
	boardID, err := parseBoardID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid board ID format")
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), boardID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, board)
}

// GetBoardStrokes 返回画板的历史笔划事件。
// 可选的 limit 查询参数限制为最近的 N 条。
func (h *BoardHandler) GetBoardStrokes(c *gin.Context) {
	boardID, err := parseBoardID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid board ID format")
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
	}

	events, err := h.drawService.GetBoardStrokes(c.Request.Context(), boardID, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, events)
}

func parseBoardID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("boardId"), 10, 64)
}
