package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/service"
)

// UserHandler 封装用户目录查询的 HTTP 处理逻辑
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService *service.UserService) *UserHandler {
	if userService == nil {
		panic("UserService cannot be nil for UserHandler")
	}
	return &UserHandler{userService: userService}
}

// GetUserByDisplayName 根据展示名返回用户公开信息
func (h *UserHandler) GetUserByDisplayName(c *gin.Context) {
	displayName := c.Param("displayName")
	if displayName == "" {
		ErrorResponse(c, http.StatusBadRequest, "Display name is required")
		return
	}

	user, err := h.userService.GetUserByDisplayName(c.Request.Context(), displayName)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, user)
}
