package service

import "errors"

var (
	// ErrBoardNotFound / ErrUserNotFound 表示发布时的引用完整性缺口：
	// 画板或用户在持久化时刻不存在。事件此时已经广播并进缓存，
	// 持久化被跳过，错误只通过 PublishOutcome 暴露，不作为调用错误返回。
	ErrBoardNotFound = errors.New("board not found")
	ErrUserNotFound  = errors.New("user not found")

	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: display name or email already exists")
	ErrInvalidEvent         = errors.New("invalid event payload")
	ErrInternalServer       = errors.New("internal server error")
)
