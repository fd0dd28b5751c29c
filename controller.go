package surfplay

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// How often the position indicator is refreshed while playing.
const ReportInterval = time.Second

// Labels shown on the transport button.
const (
	LabelPlay  = "Play"
	LabelPause = "Pause"
)

// ErrNotPrepared is returned when transport controls are used on a session
// that hasn't finished preparing yet.
var ErrNotPrepared = errors.New("playback session not prepared yet")

// The button used to toggle between playing and paused.
type TransportButton interface {
	SetLabel(label string)
	Label() string
	SetEnabled(enabled bool)
}

// The control showing, and accepting, the current playback position.
// Progress is always within [0, Max()].
type Indicator interface {
	SetMax(value time.Duration)
	Max() time.Duration
	SetProgress(position time.Duration)
	Progress() time.Duration
	SetEnabled(enabled bool)
}

// A [PlaybackController] binds a [Session] to a drawing surface, mediates
// play, pause and seek requests and keeps an [Indicator] in sync with the
// playback position.
//
// The controller is not safe for concurrent use. All its methods, and all
// the tasks it posts, must run on the goroutine that drives the [Looper].
// Sessions may complete their preparation on other goroutines; the
// completion is posted back to the looper.
type PlaybackController struct {
	looper    *Looper
	button    TransportButton
	indicator Indicator
	opener    SessionOpener
	mediaPath string

	session   Session
	preparing bool
	playing   bool
	loopGen   uint64 // reporting loop generation, stale ticks compare against it
}

// Creates a new [PlaybackController]. Controls start disabled and are only
// enabled once a session is prepared. If mediaPath is empty,
// [DefaultMediaPath]() is used.
func NewPlaybackController(looper *Looper, button TransportButton, indicator Indicator, opener SessionOpener, mediaPath string) *PlaybackController {
	if looper == nil || button == nil || indicator == nil || opener == nil {
		panic("nil looper, button, indicator or session opener")
	}
	if mediaPath == "" {
		mediaPath = DefaultMediaPath()
	}

	button.SetLabel(LabelPlay)
	button.SetEnabled(false)
	indicator.SetEnabled(false)
	return &PlaybackController{
		looper:    looper,
		button:    button,
		indicator: indicator,
		opener:    opener,
		mediaPath: mediaPath,
	}
}

// Returns the current state: [NoSession], [Preparing], [Playing] or [Paused].
func (c *PlaybackController) State() PlaybackState {
	switch {
	case c.preparing:
		return Preparing
	case c.session == nil:
		return NoSession
	case c.playing:
		return Playing
	default:
		return Paused
	}
}

// Returns the play/pause flag.
func (c *PlaybackController) Playing() bool { return c.playing }

// Returns the media location the controller opens sessions for.
func (c *PlaybackController) MediaPath() string { return c.mediaPath }

// Opens a session on the given surface and requests asynchronous
// preparation. Open failures are only logged: the controller then remains
// [Preparing] without a session until the surface is destroyed.
func (c *PlaybackController) OnSurfaceReady(surface *ebiten.Image) {
	if c.session != nil {
		pkgLogger.Printf("WARNING: surface ready while a session exists; releasing it first")
		c.OnSurfaceDestroyed()
	}

	c.preparing = true
	session, err := c.opener(c.mediaPath, surface)
	if err != nil {
		pkgLogger.Printf("WARNING: failed to open '%s': %v", c.mediaPath, err)
		return
	}
	c.session = session
	session.PrepareAsync(func(err error) {
		c.looper.Post(func() { c.onPrepareDone(session, err) })
	})
}

// Releases the session if there's one. Safe to call any number of times,
// including when no session was ever opened.
func (c *PlaybackController) OnSurfaceDestroyed() {
	c.loopGen += 1
	c.preparing = false
	c.playing = false
	c.button.SetLabel(LabelPlay)
	c.button.SetEnabled(false)
	c.indicator.SetEnabled(false)
	if c.session == nil {
		return
	}

	session := c.session
	c.session = nil
	if err := session.Release(); err != nil {
		pkgLogger.Printf("WARNING: failed to release playback session: %v", err)
	}
}

// Called once the current session has finished preparing. Sets the
// indicator range, starts playback and the position reporting loop.
func (c *PlaybackController) OnPrepared() {
	if c.session == nil || !c.preparing {
		return
	}

	c.indicator.SetMax(c.session.Duration())
	if err := c.session.Start(); err != nil {
		pkgLogger.Printf("WARNING: failed to start playback: %v", err)
		return
	}
	c.preparing = false
	c.playing = true
	c.button.SetLabel(LabelPause)
	c.button.SetEnabled(true)
	c.indicator.SetEnabled(true)
	c.startReporting()
}

// Pauses when playing, resumes when paused. Calling it without a prepared
// session is a caller error and returns [ErrNoSession] or [ErrNotPrepared].
func (c *PlaybackController) OnPlayPauseToggle() error {
	if c.session == nil {
		return ErrNoSession
	}
	if c.preparing {
		return ErrNotPrepared
	}

	if c.playing {
		if err := c.session.Pause(); err != nil {
			return fmt.Errorf("pause: %w", err)
		}
		c.playing = false
		c.button.SetLabel(LabelPlay)
		return nil
	}

	if err := c.session.Start(); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	c.playing = true
	c.button.SetLabel(LabelPause)
	c.startReporting()
	return nil
}

// Moves the session to the given position, but only when the change comes
// from the user. Changes made by the reporting loop itself are ignored.
func (c *PlaybackController) OnSeek(position time.Duration, fromUser bool) error {
	if !fromUser || c.session == nil {
		return nil
	}
	if err := c.session.SeekTo(position); err != nil {
		return fmt.Errorf("seek to %s: %w", position, err)
	}
	return nil
}

// Presents the current frame on the surface. Does nothing without a session.
func (c *PlaybackController) Render() error {
	if c.session == nil {
		return nil
	}
	return c.session.Render()
}

// --- internal ---

func (c *PlaybackController) onPrepareDone(session Session, err error) {
	if session != c.session {
		// released before preparation completed
		return
	}
	if err != nil {
		pkgLogger.Printf("WARNING: failed to prepare '%s': %v", c.mediaPath, err)
		return
	}
	c.OnPrepared()
}

func (c *PlaybackController) startReporting() {
	c.loopGen += 1
	c.reportPosition(c.loopGen)
}

// Pending ticks are never cancelled. Instead, each tick checks on wake
// whether it's still relevant and declines to reschedule otherwise.
func (c *PlaybackController) reportPosition(gen uint64) {
	if gen != c.loopGen || c.session == nil || !c.playing {
		return
	}

	position, err := c.session.Position()
	if err != nil {
		pkgLogger.Printf("WARNING: failed to read playback position: %v", err)
	} else {
		c.indicator.SetProgress(position)
	}
	c.looper.PostDelayed(func() { c.reportPosition(gen) }, ReportInterval)
}
