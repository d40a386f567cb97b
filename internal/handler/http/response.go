package http

import "github.com/gin-gonic/gin"

// ErrorResponse 以统一的 {"error": ...} 形态返回错误。
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// SuccessResponse 原样返回业务数据。
func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}
