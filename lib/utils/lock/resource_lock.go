package lock

import (
	"context"
	"sync/atomic"
)

// ResourceLock ограничивает число одновременных тяжелых операций (Cpu/Mem)
//
//	if !res.Acquire(ctx) {
//		return ctx.Err() // Контекст завершен
//	}
//	defer res.Release()
type ResourceLock struct {
	slots     chan struct{}
	waitCount int32
}

func NewResourceLock(capacity int) *ResourceLock {
	if capacity < 1 {
		capacity = 1
	}
	return &ResourceLock{
		slots: make(chan struct{}, capacity),
	}
}

// Acquire возвращает false, если контекст завершился раньше, чем освободился слот
func (c *ResourceLock) Acquire(ctx context.Context) bool {
	atomic.AddInt32(&c.waitCount, 1)
	defer atomic.AddInt32(&c.waitCount, -1)
	select {
	case c.slots <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *ResourceLock) Release() {
	select {
	case <-c.slots:
	default:
	}
}

// WaitCount возвращает количество ожидающих горутин
func (c *ResourceLock) WaitCount() int {
	return int(atomic.LoadInt32(&c.waitCount))
}

// InUse количество занятых слотов
func (c *ResourceLock) InUse() int {
	return len(c.slots)
}
