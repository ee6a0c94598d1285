package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerArmIsIdempotent(t *testing.T) {
	timers := &fakeTimers{}
	var got []Token
	s := NewScheduler(time.Second, timers.AfterFunc, func(tok Token) { got = append(got, tok) })

	tok1, started := s.Arm()
	require.True(t, started)
	tok2, started := s.Arm()
	assert.False(t, started)
	assert.Equal(t, tok1, tok2)
	assert.Equal(t, 1, timers.started, "second Arm must not start another timer")
	assert.Equal(t, time.Second, timers.pending[0].d)

	timers.fireAll()
	assert.Equal(t, []Token{tok1}, got)
}

func TestSchedulerAcceptOnce(t *testing.T) {
	timers := &fakeTimers{}
	s := NewScheduler(time.Second, timers.AfterFunc, nil)

	tok, _ := s.Arm()
	assert.True(t, s.Armed())
	assert.True(t, s.Accept(tok))
	assert.False(t, s.Accept(tok), "token accepted twice")
	assert.False(t, s.Armed())
}

func TestSchedulerCancelInvalidatesToken(t *testing.T) {
	timers := &fakeTimers{}
	s := NewScheduler(time.Second, timers.AfterFunc, nil)

	tok, _ := s.Arm()
	s.Cancel()
	assert.False(t, s.Armed())
	assert.False(t, s.Accept(tok))
	assert.True(t, timers.pending[0].stopped)

	next, started := s.Arm()
	require.True(t, started)
	assert.NotEqual(t, tok, next)
	assert.False(t, s.Accept(tok), "old token accepted after re-arm")
	assert.True(t, s.Accept(next))
}

func TestSchedulerCancelWhenIdle(t *testing.T) {
	s := NewScheduler(time.Second, (&fakeTimers{}).AfterFunc, nil)
	s.Cancel()
	assert.False(t, s.Armed())
	assert.False(t, s.Accept(0))
}

func TestSchedulerRealTimer(t *testing.T) {
	fired := make(chan Token, 1)
	s := NewScheduler(5*time.Millisecond, nil, func(tok Token) { fired <- tok })

	tok, _ := s.Arm()
	select {
	case got := <-fired:
		assert.Equal(t, tok, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}
