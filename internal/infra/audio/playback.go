package audio

import "time"

// DefaultPollInterval is how often playback checks the stream for errors.
const DefaultPollInterval = 100 * time.Millisecond

// PollInterval returns d, or DefaultPollInterval when d is not positive.
func PollInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultPollInterval
	}
	return d
}
