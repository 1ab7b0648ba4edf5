package lock

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLocalSerializesSameKey(t *testing.T) {
	l := NewLocal()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Acquire(context.Background(), "emp-1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, l.slots)
}

func TestLocalIndependentKeys(t *testing.T) {
	l := NewLocal()
	unlockA, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Acquire(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestLocalHonoursContext(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Empty(t, l.slots)
}

func TestRedisExtendsHeldLock(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()

	l := NewRedis(client, 150*time.Millisecond)
	key := "test:" + time.Now().Format("150405.000000000")
	unlock, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	time.Sleep(500 * time.Millisecond)
	exists, err := client.Exists(ctx, l.prefix+key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "held lock expired")

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	_, err = l.Acquire(waitCtx, key)
	cancel()
	assert.True(t, errors.Is(err, ErrNotAcquired))

	unlock()
	exists, err = client.Exists(ctx, l.prefix+key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	unlock, err = l.Acquire(ctx, key)
	require.NoError(t, err)
	unlock()
}
