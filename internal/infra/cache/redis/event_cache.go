package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
)

// RedisEventCache 是 EventCacheRepository 接口的 Redis 实现。
// 广播走 Redis Pub/Sub，回放缓冲区走 RPUSH + EXPIRE 的列表，
// 两者共享同一个客户端，因此多实例部署时天然共享同一份缓存。
type RedisEventCache struct {
	client *redis.Client
	// 可选的 Redis key 前缀，方便多环境共用一个实例
	keyPrefix string
}

// NewRedisEventCache 创建 RedisEventCache 实例
func NewRedisEventCache(client *redis.Client, keyPrefix string) *RedisEventCache {
	if client == nil {
		panic("redis client cannot be nil for RedisEventCache")
	}
	return &RedisEventCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisEventCache) prefixed(key string) string {
	return r.keyPrefix + key
}

// Publish 将负载序列化为 JSON 并发布到指定频道。
// 发布是 fire-and-forget：不等待任何订阅者确认。
func (r *RedisEventCache) Publish(ctx context.Context, channel string, payload any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal payload for publish on %s: %w", channel, err)
	}
	err = r.client.Publish(ctx, r.prefixed(channel), payloadBytes).Err()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"channel":      channel,
			"payload_size": len(payloadBytes),
		}).WithError(err).Error("Redis Publish failed")
		return fmt.Errorf("redis: failed to publish to channel %s: %w", channel, err)
	}
	return nil
}

// AppendToList 将负载序列化为 JSON 并追加到列表尾部
func (r *RedisEventCache) AppendToList(ctx context.Context, key string, payload any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal payload for list %s: %w", key, err)
	}
	if err := r.client.RPush(ctx, r.prefixed(key), payloadBytes).Err(); err != nil {
		return fmt.Errorf("redis: failed to append to list %s: %w", key, err)
	}
	return nil
}

// ExpireList 重置列表的过期时间
func (r *RedisEventCache) ExpireList(ctx context.Context, key string, ttl time.Duration) error {
	if err := r.client.Expire(ctx, r.prefixed(key), ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to expire list %s: %w", key, err)
	}
	return nil
}

// RangeList 返回列表 [start, stop] 区间的原始负载。
// key 不存在时 LRANGE 返回空结果而不是错误，调用方据此区分冷热路径。
func (r *RedisEventCache) RangeList(ctx context.Context, key string, start, stop int64) ([]string, error) {
	items, err := r.client.LRange(ctx, r.prefixed(key), start, stop).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis: failed to range list %s: %w", key, err)
	}
	return items, nil
}

// Subscribe 订阅指定频道并返回包装后的订阅对象。
// 转发 goroutine 在订阅关闭后退出并关闭消息通道。
func (r *RedisEventCache) Subscribe(ctx context.Context, channel string) repository.Subscription {
	pubsub := r.client.Subscribe(ctx, r.prefixed(channel))
	sub := &redisSubscription{
		pubsub:   pubsub,
		messages: make(chan []byte, 64),
	}
	go sub.pump(channel)
	return sub
}

// redisSubscription 将 go-redis 的 PubSub 适配为 repository.Subscription
type redisSubscription struct {
	pubsub   *redis.PubSub
	messages chan []byte
}

func (s *redisSubscription) pump(channel string) {
	defer close(s.messages)
	for msg := range s.pubsub.Channel() {
		select {
		case s.messages <- []byte(msg.Payload):
		default:
			// 本地消费者堆积时丢弃该条广播；实时链路不做背压
			logrus.WithField("channel", channel).Warn("Subscription buffer full, dropping broadcast payload")
		}
	}
}

func (s *redisSubscription) Messages() <-chan []byte {
	return s.messages
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}
