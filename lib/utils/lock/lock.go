package lock

import (
	"context"
	"sync"
	"time"
)

// keyLocks занятые ключи, канал закрывается при освобождении
var (
	mu       sync.Mutex
	keyLocks = map[string]chan struct{}{}
)

func tryLock(key string) (release func(), busy <-chan struct{}) {
	mu.Lock()
	defer mu.Unlock()
	if done, ok := keyLocks[key]; ok {
		return nil, done
	}
	done := make(chan struct{})
	keyLocks[key] = done
	return func() {
		mu.Lock()
		delete(keyLocks, key)
		mu.Unlock()
		close(done)
	}, nil
}

// WithDelay выполняет safeCode под блокировкой key, ожидая освобождения не дольше wait.
// success=false если ключ не освободился за wait или завершился ctx
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		release, busy := tryLock(key)
		if release != nil {
			defer release()
			return true, safeCode()
		}
		select {
		case <-busy:
		case <-timer.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		}
	}
}
