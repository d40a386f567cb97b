package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/PhongLe7de/Software-Engineering-Project-1-Group-4/internal/repository"
)

// EventCacheRepository 是 repository.EventCacheRepository 的手写 Mock 实现。
type EventCacheRepository struct {
	mock.Mock
}

func (m *EventCacheRepository) Publish(ctx context.Context, channel string, payload any) error {
	args := m.Called(ctx, channel, payload)
	return args.Error(0)
}

func (m *EventCacheRepository) AppendToList(ctx context.Context, key string, payload any) error {
	args := m.Called(ctx, key, payload)
	return args.Error(0)
}

func (m *EventCacheRepository) ExpireList(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

func (m *EventCacheRepository) RangeList(ctx context.Context, key string, start, stop int64) ([]string, error) {
	args := m.Called(ctx, key, start, stop)
	var payloads []string
	if args.Get(0) != nil {
		payloads = args.Get(0).([]string)
	}
	return payloads, args.Error(1)
}

func (m *EventCacheRepository) Subscribe(ctx context.Context, channel string) repository.Subscription {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(repository.Subscription)
}

// Subscription 是 repository.Subscription 的手写 Mock 实现。
type Subscription struct {
	mock.Mock
}

func (m *Subscription) Messages() <-chan []byte {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(<-chan []byte)
}

func (m *Subscription) Close() error {
	args := m.Called()
	return args.Error(0)
}
