package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/set-night/subguard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreGetCreatesIdle(t *testing.T) {
	s := NewSessionStore()

	sess := s.Get(42)
	assert.Equal(t, domain.StateIdle, sess.State)
	assert.Empty(t, sess.Fields)
	assert.Equal(t, 0, s.Len(), "reading must not leave a session behind")
}

func TestSessionStoreSetAndClear(t *testing.T) {
	s := NewSessionStore()

	sess := domain.NewSession()
	sess.State = domain.StateEnteringBank
	sess.Fields[domain.FieldFIO] = "Иванов Иван Иванович"
	s.Set(1, sess)

	got := s.Get(1)
	assert.Equal(t, domain.StateEnteringBank, got.State)
	assert.Equal(t, "Иванов Иван Иванович", got.Fields[domain.FieldFIO])

	// mutating the returned copy must not leak into the store
	got.Fields[domain.FieldFIO] = "changed"
	assert.Equal(t, "Иванов Иван Иванович", s.Get(1).Fields[domain.FieldFIO])

	s.Clear(1)
	assert.Equal(t, domain.StateIdle, s.Get(1).State)
	assert.Equal(t, 0, s.Len())
}

func TestSessionStoreTerminalStateClears(t *testing.T) {
	s := NewSessionStore()
	s.Set(1, domain.Session{State: domain.StateEnteringCard, Fields: map[domain.Field]string{}})

	s.Set(1, domain.Session{State: domain.StateDone})

	l := s.Acquire(1)
	defer l.Release()
	assert.False(t, l.Exists())
}

func TestSessionStoreSerializesSameUser(t *testing.T) {
	s := NewSessionStore()
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := s.Acquire(7)
			defer l.Release()

			sess := l.Get()
			n := len(sess.Fields)
			time.Sleep(time.Millisecond)
			sess.Fields[domain.Field(fmt.Sprintf("f%d", n))] = "x"
			l.Set(sess)
		}()
	}
	wg.Wait()

	assert.Len(t, s.Get(7).Fields, workers, "no update may be lost")
}

func TestSessionStoreEvictsIdleOnly(t *testing.T) {
	s := NewSessionStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Set(1, domain.Session{State: domain.StateEnteringName})
	s.Set(2, domain.Session{State: domain.StateEnteringName})

	now = now.Add(2 * time.Hour)
	s.Set(2, domain.Session{State: domain.StateEnteringSource})

	held := s.Acquire(3)
	held.Set(domain.Session{State: domain.StateEnteringName})
	now = now.Add(2 * time.Hour)

	evicted := s.Evict(3 * time.Hour)
	require.Equal(t, 1, evicted)

	assert.Equal(t, domain.StateIdle, s.Get(1).State)
	assert.Equal(t, domain.StateEnteringSource, s.Get(2).State)

	held.Release()
	assert.Equal(t, domain.StateEnteringName, s.Get(3).State)
}
