package surfplay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A prepared session without media, enough to exercise the playback clock.
func newClockOnlySession(clock *fakeClock, duration time.Duration) *reisenSession {
	return &reisenSession{
		duration:      duration,
		frameDuration: time.Second / 30,
		prepared:      true,
		referenceTime: clock.Now(),
		now:           clock.Now,
	}
}

func TestReisenSession_Clock(t *testing.T) {
	clock := newFakeClock()
	s := newClockOnlySession(clock, time.Minute)

	pos, err := s.Position()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), pos)

	require.NoError(t, s.Start())
	clock.Advance(10 * time.Second)
	pos, _ = s.Position()
	assert.Equal(t, 10*time.Second, pos)

	require.NoError(t, s.Pause())
	clock.Advance(10 * time.Second)
	pos, _ = s.Position()
	assert.Equal(t, 10*time.Second, pos)

	// pausing twice is harmless
	require.NoError(t, s.Pause())

	require.NoError(t, s.Start())
	clock.Advance(5 * time.Second)
	pos, _ = s.Position()
	assert.Equal(t, 15*time.Second, pos)
}

func TestReisenSession_ClockStopsAtEnd(t *testing.T) {
	clock := newFakeClock()
	s := newClockOnlySession(clock, time.Minute)

	require.NoError(t, s.Start())
	clock.Advance(2 * time.Minute)
	pos, err := s.Position()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, pos)
	assert.False(t, s.playing)
	assert.Equal(t, time.Minute, s.Duration())
}

func TestReisenSession_NotPrepared(t *testing.T) {
	clock := newFakeClock()
	s := newClockOnlySession(clock, time.Minute)
	s.prepared = false

	assert.ErrorIs(t, s.Start(), ErrNotPrepared)
	assert.ErrorIs(t, s.Pause(), ErrNotPrepared)
	assert.ErrorIs(t, s.SeekTo(time.Second), ErrNotPrepared)
}

func TestReisenSession_Released(t *testing.T) {
	clock := newFakeClock()
	s := newClockOnlySession(clock, time.Minute)
	s.released = true

	assert.ErrorIs(t, s.Start(), ErrSessionReleased)
	_, err := s.Position()
	assert.ErrorIs(t, err, ErrSessionReleased)
	assert.ErrorIs(t, s.Render(), ErrSessionReleased)
	assert.NoError(t, s.Release())

	done := make(chan error, 1)
	s.PrepareAsync(func(err error) { done <- err })
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSessionReleased)
	case <-time.After(time.Second):
		t.Fatal("preparation never completed")
	}
}
