package surfplay

// Playback state of a [PlaybackController]: [NoSession], [Preparing],
// [Playing] or [Paused].
type PlaybackState uint8

// Returns a string representation of the playback state
// ("NoSession", "Preparing", "Playing", "Paused", "Unknown").
func (s PlaybackState) String() string {
	switch s {
	case NoSession:
		return "NoSession"
	case Preparing:
		return "Preparing"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

const (
	NoSession PlaybackState = iota
	Preparing
	Playing
	Paused
)
