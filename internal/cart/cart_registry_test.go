package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/khatias/rdbr-project/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestRegistry_GetCreatesOncePerSession(t *testing.T) {
	var tokens []string
	reg := cart.NewRegistry(func(sessionKey, token string) *cart.Core {
		tokens = append(tokens, token)
		return newCore(&fakeUpstream{})
	}, zap.NewNop())

	a, created := reg.Get("s1", "tok-1")
	assert.True(t, created)

	again, created := reg.Get("s1", "tok-1")
	assert.False(t, created)
	assert.Same(t, a, again)

	b, created := reg.Get("s2", "tok-2")
	assert.True(t, created)
	assert.NotSame(t, a, b)

	assert.Equal(t, []string{"tok-1", "tok-2"}, tokens)
	assert.Equal(t, 2, reg.Len())

	reg.Forget("s1")
	_, ok := reg.Lookup("s1")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SweepKeepsPendingCores(t *testing.T) {
	blocked := &fakeUpstream{block: make(chan struct{})}
	reg := cart.NewRegistry(func(sessionKey, token string) *cart.Core {
		if sessionKey == "busy" {
			return newCore(blocked)
		}
		return newCore(&fakeUpstream{})
	}, zap.NewNop())

	reg.Get("idle", "t1")
	busy, _ := reg.Get("busy", "t2")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = busy.Reload(context.Background())
	}()
	require.Eventually(t, busy.Pending, time.Second, time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	removed := reg.Sweep(time.Millisecond)

	assert.Equal(t, 1, removed)
	_, ok := reg.Lookup("busy")
	assert.True(t, ok)
	_, ok = reg.Lookup("idle")
	assert.False(t, ok)

	close(blocked.block)
	<-done
}

func TestRegistry_RunSweeperStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := cart.NewRegistry(func(sessionKey, token string) *cart.Core {
		return newCore(&fakeUpstream{})
	}, zap.NewNop())
	reg.Get("s1", "t1")

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		reg.RunSweeper(ctx, 2*time.Millisecond, time.Nanosecond)
	}()

	require.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, 2*time.Millisecond)
	cancel()
	<-stopped
}
