package surfplay

import (
	"image/color"
	"path/filepath"
	"sync"
	"time"

	"github.com/erparts/reisen"
	"github.com/hajimehoshi/ebiten/v2"
)

var _ Session = (*reisenSession)(nil)

// A [Session] decoding video frames with reisen and presenting them on an
// ebitengine image. Audio streams are ignored.
type reisenSession struct {
	// mutex and underlying reisen objects
	mutex  sync.Mutex
	media  *reisen.Media
	stream *reisen.VideoStream

	// drawing targets
	surface         *ebiten.Image
	frame           *ebiten.Image // decoded frame at native resolution
	onBlackFrame    bool
	framePresOffset time.Duration

	// static data, set on preparation
	duration      time.Duration
	frameDuration time.Duration

	// state variables
	prepared          bool
	released          bool
	playing           bool
	referenceTime     time.Time
	referencePosition time.Duration
	lastReadFrame     *reisen.VideoFrame
	now               func() time.Time
}

// Opens the media at path and binds it to the given surface. This is a
// [SessionOpener]. Only the container headers are read here, decoding is
// set up by [Session.PrepareAsync]().
func OpenReisenSession(path string, surface *ebiten.Image) (Session, error) {
	if surface == nil {
		panic("nil surface")
	}

	media, err := reisen.NewMedia(path)
	if err != nil {
		return nil, err
	}

	videoStreams := media.VideoStreams()
	if len(videoStreams) == 0 {
		media.Close()
		return nil, ErrNoVideo
	}
	if len(videoStreams) > 1 {
		pkgLogger.Printf("WARNING: '%s' has multiple video streams; defaulting to the first", filepath.Base(path))
	}
	videoStream := videoStreams[0]

	frame := ebiten.NewImage(videoStream.Width(), videoStream.Height())
	frame.Fill(color.Black)
	return &reisenSession{
		media:        media,
		stream:       videoStream,
		surface:      surface,
		frame:        frame,
		onBlackFrame: true,
		now:          time.Now,
	}, nil
}

func (s *reisenSession) PrepareAsync(done func(error)) {
	go func() {
		s.mutex.Lock()
		err := s.noLockPrepare()
		s.mutex.Unlock()
		done(err)
	}()
}

func (s *reisenSession) noLockPrepare() error {
	if s.released {
		return ErrSessionReleased
	}
	if s.prepared {
		return nil
	}

	frNum, frDenom := s.stream.FrameRate()
	if frNum <= 0 || frDenom <= 0 {
		frNum, frDenom = 30, 1
		pkgLogger.Printf("WARNING: invalid video frame rate; assuming 30fps")
	}
	duration, err := s.stream.Duration()
	if err != nil {
		return err
	}

	err = s.media.OpenDecode()
	if err != nil {
		return err
	}
	err = s.stream.Open()
	if err != nil {
		_ = s.media.CloseDecode()
		return err
	}

	s.duration = duration
	s.frameDuration = (time.Second * time.Duration(frDenom)) / time.Duration(frNum)
	s.referencePosition = 0
	s.referenceTime = s.now()
	s.prepared = true
	return nil
}

func (s *reisenSession) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.noLockCheckUsable(); err != nil {
		return err
	}
	if s.playing {
		return nil
	}

	// natural end of video, play again from the start
	if s.referencePosition >= s.duration {
		err := s.stream.Rewind(0)
		if err != nil {
			return err
		}
		s.referencePosition = 0
		s.lastReadFrame = nil
	}
	s.referenceTime = s.now()
	s.playing = true
	return nil
}

func (s *reisenSession) Pause() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.noLockCheckUsable(); err != nil {
		return err
	}
	if !s.playing {
		return nil
	}

	now := s.now()
	position := s.noLockPosition(now)
	s.playing = false
	s.referenceTime = now
	s.referencePosition = position
	return nil
}

func (s *reisenSession) SeekTo(position time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.noLockCheckUsable(); err != nil {
		return err
	}

	// seeking to the very end leaves no frame to show, so we stay
	// one frame short of it
	position = min(max(position, 0), max(s.duration-s.frameDuration, 0))
	err := s.stream.Rewind(position)
	if err != nil {
		return err
	}
	frame, err := s.noLockReadVideoFrame()
	if err != nil {
		return err
	}
	if frame != nil {
		s.lastReadFrame = frame
	}
	s.referencePosition = position
	s.referenceTime = s.now()
	return nil
}

func (s *reisenSession) Position() (time.Duration, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.released {
		return 0, ErrSessionReleased
	}
	return s.noLockPosition(s.now()), nil
}

func (s *reisenSession) Duration() time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.duration
}

func (s *reisenSession) Render() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.released {
		return ErrSessionReleased
	}

	if s.prepared {
		frame, err := s.noLockCurrentVideoFrame()
		if err != nil {
			return err
		}
		err = s.noLockCopyFrame(frame)
		if err != nil {
			return err
		}
	}

	s.surface.Clear()
	Draw(s.surface, s.frame)
	return nil
}

func (s *reisenSession) Release() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.released {
		return nil
	}
	s.released = true
	s.playing = false
	s.lastReadFrame = nil
	defer s.media.Close()
	defer s.frame.Deallocate()

	if !s.prepared {
		return nil
	}
	err := s.stream.Close()
	if err != nil {
		return err
	}
	return s.media.CloseDecode()
}

// --- internal ---

func (s *reisenSession) noLockCheckUsable() error {
	if s.released {
		return ErrSessionReleased
	}
	if !s.prepared {
		return ErrNotPrepared
	}
	return nil
}

// Position derived from the wall clock. Reaching the end of the video
// stops the clock at the duration as a side effect.
func (s *reisenSession) noLockPosition(now time.Time) time.Duration {
	if !s.playing {
		return s.referencePosition
	}
	if s.referenceTime.After(now) {
		pkgLogger.Printf("WARNING: time inconsistency, session reference time after now")
		now = s.referenceTime
	}

	position := s.referencePosition + now.Sub(s.referenceTime)
	if position < s.duration {
		return position
	}
	s.playing = false
	s.referenceTime = now
	s.referencePosition = s.duration
	return s.duration
}

// Returns the last decoded frame at or before the current position,
// decoding as many frames as needed to catch up.
func (s *reisenSession) noLockCurrentVideoFrame() (*reisen.VideoFrame, error) {
	position := s.noLockPosition(s.now())

	var presOffset time.Duration
	if s.lastReadFrame != nil {
		var err error
		presOffset, err = s.lastReadFrame.PresentationOffset()
		if err != nil {
			return nil, err
		}
	}

	for s.lastReadFrame == nil || presOffset+s.frameDuration < position {
		frame, err := s.noLockReadVideoFrame()
		if err != nil {
			return nil, err
		}
		if frame == nil {
			break // end of stream, keep showing the last frame
		}
		presOffset, err = frame.PresentationOffset()
		if err != nil {
			return nil, err
		}
		s.lastReadFrame = frame
	}
	return s.lastReadFrame, nil
}

func (s *reisenSession) noLockReadVideoFrame() (*reisen.VideoFrame, error) {
	// read packets until we come across the next video frame packet
	for {
		packet, packetFound, err := s.media.ReadPacket()
		if err != nil {
			return nil, err
		}
		if !packetFound {
			return nil, nil
		}

		if packet.Type() == reisen.StreamVideo && packet.StreamIndex() == s.stream.Index() {
			frame, _, err := s.stream.ReadVideoFrame()
			if err != nil {
				return nil, err
			}
			// a found frame can still be nil: that's a frame skip
			if frame != nil {
				return frame, nil
			}
		}
	}
}

func (s *reisenSession) noLockCopyFrame(frame *reisen.VideoFrame) error {
	if frame == nil {
		if !s.onBlackFrame {
			s.frame.Fill(color.Black)
			s.onBlackFrame = true
		}
		return nil
	}

	presOffset, err := frame.PresentationOffset()
	if err != nil {
		return err
	}
	// the onBlackFrame check disambiguates the zero value of
	// framePresOffset from frames starting at exactly 0
	if presOffset != s.framePresOffset || s.onBlackFrame {
		s.frame.WritePixels(frame.Data())
		s.framePresOffset = presOffset
		s.onBlackFrame = false
	}
	return nil
}
