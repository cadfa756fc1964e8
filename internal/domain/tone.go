package domain

type Tone string

const (
	ToneNeutral    Tone = "neutral"
	ToneHappy      Tone = "happy"
	ToneSerious    Tone = "serious"
	ToneEmpathetic Tone = "empathetic"
	ToneSad        Tone = "sad"
)

// VoiceSettings are the synthesis stability parameters bound to a tone.
type VoiceSettings struct {
	Stability       float64
	SimilarityBoost float64
}

var toneSettings = map[Tone]VoiceSettings{
	ToneNeutral:    {Stability: 0.5, SimilarityBoost: 0.75},
	ToneHappy:      {Stability: 0.3, SimilarityBoost: 0.85},
	ToneSerious:    {Stability: 0.7, SimilarityBoost: 0.65},
	ToneEmpathetic: {Stability: 0.4, SimilarityBoost: 0.85},
	ToneSad:        {Stability: 0.6, SimilarityBoost: 0.8},
}

// Settings returns the parameters for t. Unknown tones fall back to neutral.
func (t Tone) Settings() VoiceSettings {
	if s, ok := toneSettings[t]; ok {
		return s
	}
	return toneSettings[ToneNeutral]
}

// SelectTone maps a sentiment pair to a tone. Rules are evaluated in order and
// the first match wins, so strongly negative input always beats subjectivity.
func SelectTone(polarity, subjectivity float64) Tone {
	switch {
	case polarity > 0.4:
		return ToneHappy
	case polarity < -0.6:
		return ToneSad
	case polarity < -0.3:
		return ToneSerious
	case subjectivity > 0.6:
		return ToneEmpathetic
	default:
		return ToneNeutral
	}
}
