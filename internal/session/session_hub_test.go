package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/khatias/rdbr-project/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestHub_DeliversPerSession(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := session.NewHub(zap.NewNop())
	a, cancelA := hub.Subscribe("a")
	b, cancelB := hub.Subscribe("b")
	defer cancelB()

	hub.Publish(session.Event{Type: session.EventAvatarChanged, SessionKey: "a"})

	assert.Equal(t, session.EventAvatarChanged, nextEvent(t, a).Type)
	select {
	case e := <-b:
		t.Fatalf("unexpected event for b: %v", e)
	default:
	}

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers("a"))
	assert.Equal(t, 1, hub.Subscribers("b"))
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := session.NewHub(zap.NewNop())
	_, cancel := hub.Subscribe("a")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Publish(session.Event{Type: session.EventAvatarChanged, SessionKey: "a"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestHub_ConcurrentSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := session.NewHub(zap.NewNop())
	ctx, stop := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	received := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		ch, cancel := hub.Subscribe("s")
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancel()
			select {
			case <-ch:
				received <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	require.Equal(t, 10, hub.Subscribers("s"))
	hub.Publish(session.Event{Type: session.EventSessionEnded, SessionKey: "s"})

	for i := 0; i < 10; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the event")
		}
	}
	stop()
	wg.Wait()
	assert.Equal(t, 0, hub.Subscribers("s"))
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(10 * time.Millisecond)

	require.NoError(t, store.Put(ctx, session.Context{SessionKey: "s1", Email: "a@b.c"}))
	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateAvatar(t *testing.T) {
	assert.NoError(t, session.ValidateAvatar(""))
	assert.NoError(t, session.ValidateAvatar(pngAvatar))
	assert.Error(t, session.ValidateAvatar("data:text/plain;base64,aGk="))
	assert.Error(t, session.ValidateAvatar("data:image/png;base64,%%%"))

	uri, err := session.AvatarDataURI("", []byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/png;base64,")

	_, err = session.AvatarDataURI("text/plain", []byte("hello"))
	assert.Error(t, err)
}
