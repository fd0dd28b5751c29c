package surfplay

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/hajimehoshi/ebiten/v2"
)

// Errors returned by sessions and by the [PlaybackController].
var (
	ErrNoVideo         = errors.New("file doesn't include any video stream")
	ErrNoSession       = errors.New("no playback session")
	ErrSessionReleased = errors.New("playback session already released")
)

// Name of the media file the screen plays. It lives in the app-private
// data dir, see [DefaultMediaPath]().
const MediaFilename = "test.mp4"

// Name of the app-private directories under the XDG base dirs.
const AppDirName = "surfplay"

// Returns the fixed location of the media file: the app-private data
// directory joined with [MediaFilename]. The file is not checked for
// existence.
func DefaultMediaPath() string {
	return filepath.Join(xdg.DataHome, AppDirName, MediaFilename)
}

// A [Session] is an open decode/render pipeline bound to exactly one drawing
// surface. Sessions are owned by a [PlaybackController] and must not be used
// after [Session.Release]().
type Session interface {
	// Starts preparing the session without blocking. done is called exactly
	// once, possibly from another goroutine, when the session is ready to
	// play or preparation failed.
	PrepareAsync(done func(error))

	// Starts or resumes playback.
	Start() error

	// Pauses playback. If the session is already paused, it does nothing.
	Pause() error

	// Moves to the given position. The playing/paused state is unaffected.
	SeekTo(position time.Duration) error

	// Returns the current playback position.
	Position() (time.Duration, error)

	// Returns the total media duration. Only meaningful once prepared.
	Duration() time.Duration

	// Presents the frame at the current position on the session surface.
	Render() error

	// Frees the session resources. Calling it more than once is allowed.
	Release() error
}

// Opens a [Session] for the media at path, bound to the given surface.
// Errors returned here are source open failures.
type SessionOpener func(path string, surface *ebiten.Image) (Session, error)
