package domain

// ExchangeResult is the remote service's answer to one recording.
type ExchangeResult struct {
	Reply string
	Voice string
	// Transcript is the service's reading of what was said, when it returns one.
	Transcript string
}
