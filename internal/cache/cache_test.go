package cache

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultKey(t *testing.T) {
	a := ResultKey("doc.pdf", "ocr=false:tables=true:fmt=markdown")
	b := ResultKey("doc.pdf", "ocr=true:tables=true:fmt=markdown")
	c := ResultKey("other.pdf", "ocr=false:tables=true:fmt=markdown")

	assert.Equal(t, a, ResultKey("doc.pdf", "ocr=false:tables=true:fmt=markdown"))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "result:")
}

func TestMemoryClient_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(10)
	defer c.Close()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(10)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_CloseStopsCleanup(t *testing.T) {
	before := runtime.NumGoroutine()
	c := NewMemoryClient(10)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryClient_EvictsAtCapacity(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(3)
	defer c.Close()

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("k%d", i)
		require.NoError(t, c.Set(ctx, key, []byte("v"), time.Duration(i+1)*time.Minute))
	}

	hits := 0
	for i := 0; i < 5; i++ {
		if _, err := c.Get(ctx, fmt.Sprintf("k%d", i)); err == nil {
			hits++
		}
	}
	assert.LessOrEqual(t, hits, 3)

	// The most recently written entry survives eviction.
	_, err := c.Get(ctx, "k4")
	assert.NoError(t, err)
}
