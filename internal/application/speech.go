package application

import (
	"context"

	"talkpad/internal/domain"
)

type Exchanger interface {
	Exchange(ctx context.Context, blob domain.AudioBlob) (domain.ExchangeResult, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string, tone domain.Tone) (domain.Artifact, error)
}

// SentimentScorer returns polarity in [-1, 1] and subjectivity in [0, 1].
type SentimentScorer interface {
	Score(text string) (polarity, subjectivity float64)
}

// NeutralScorer scores every text as flat, which always selects the neutral tone.
type NeutralScorer struct{}

func (NeutralScorer) Score(_ string) (float64, float64) {
	return 0, 0
}
