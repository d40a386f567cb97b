package repository

import (
	"context"
	"time"
)

// Subscription 表示一个活跃的 Pub/Sub 订阅。
type Subscription interface {
	// Messages 返回接收广播负载的通道；订阅关闭后该通道随之关闭。
	Messages() <-chan []byte
	// Close 取消订阅并释放资源。
	Close() error
}

// EventCacheRepository 定义了核心链路依赖的缓存能力集：
// 带键的广播频道，以及带 TTL 的追加型列表（回放缓冲区）。
// 任何提供 at-least-once Pub/Sub 加有序列表存储的实现都满足该契约；
// 传输层不要求严格的 FIFO 投递，回放列表本身要求追加序等于返回序。
type EventCacheRepository interface {
	// Publish 向指定频道广播一条负载（fire-and-forget，不等待确认）。
	Publish(ctx context.Context, channel string, payload any) error

	// AppendToList 将负载追加到指定列表尾部。
	AppendToList(ctx context.Context, key string, payload any) error

	// ExpireList 重置列表的过期时间。每次追加后调用，使活跃画板的
	// 历史在会话期间不会过期。
	ExpireList(ctx context.Context, key string, ttl time.Duration) error

	// RangeList 返回列表 [start, stop] 区间内的原始负载（JSON 字符串）。
	// 列表不存在时返回空切片而不是错误。
	RangeList(ctx context.Context, key string, start, stop int64) ([]string, error)

	// Subscribe 订阅指定频道，供出口适配器把广播转发给本地客户端。
	Subscribe(ctx context.Context, channel string) Subscription
}
