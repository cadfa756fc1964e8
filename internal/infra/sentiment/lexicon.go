package sentiment

import (
	"strings"
	"unicode"
)

type entry struct {
	polarity     float64
	subjectivity float64
}

var words = map[string]entry{
	"amazing":      {0.6, 0.9},
	"awesome":      {1.0, 1.0},
	"awful":        {-1.0, 1.0},
	"bad":          {-0.7, 0.67},
	"beautiful":    {0.85, 1.0},
	"best":         {1.0, 0.3},
	"boring":       {-1.0, 1.0},
	"broken":       {-0.4, 0.4},
	"calm":         {0.3, 0.75},
	"confused":     {-0.4, 0.7},
	"cry":          {-0.4, 0.6},
	"depressed":    {-0.8, 0.9},
	"disappointed": {-0.75, 0.75},
	"excellent":    {1.0, 1.0},
	"excited":      {0.4, 0.75},
	"fantastic":    {0.4, 0.9},
	"fine":         {0.4, 0.5},
	"glad":         {0.5, 1.0},
	"good":         {0.7, 0.6},
	"great":        {0.8, 0.75},
	"happy":        {0.8, 1.0},
	"hate":         {-0.8, 0.9},
	"hopeless":     {-0.9, 1.0},
	"horrible":     {-1.0, 1.0},
	"hurt":         {-0.5, 0.6},
	"lonely":       {-0.6, 0.8},
	"love":         {0.5, 0.6},
	"lovely":       {0.5, 0.75},
	"miserable":    {-1.0, 1.0},
	"nice":         {0.6, 1.0},
	"perfect":      {1.0, 1.0},
	"pleased":      {0.5, 1.0},
	"poor":         {-0.4, 0.6},
	"sad":          {-0.5, 1.0},
	"scared":       {-0.6, 0.8},
	"sorry":        {-0.5, 1.0},
	"terrible":     {-1.0, 1.0},
	"thanks":       {0.2, 0.2},
	"tired":        {-0.4, 0.7},
	"upset":        {-0.6, 0.9},
	"wonderful":    {1.0, 1.0},
	"worried":      {-0.5, 0.9},
	"worst":        {-1.0, 1.0},
	"wrong":        {-0.5, 0.9},
}

var intensifiers = map[string]float64{
	"extremely":  1.5,
	"incredibly": 1.5,
	"really":     1.3,
	"very":       1.3,
	"so":         1.2,
	"quite":      1.1,
	"pretty":     1.1,
	"slightly":   0.5,
	"somewhat":   0.7,
	"little":     0.6,
}

var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"nothing": true,
	"hardly":  true,
}

// negationFactor flips and dampens a negated word: "not good" is mildly bad.
const negationFactor = -0.5

// Lexicon scores text by averaging the polarity and subjectivity of the
// words it knows. Modifiers apply to the next scored word only.
type Lexicon struct{}

func NewLexicon() *Lexicon {
	return &Lexicon{}
}

func (l *Lexicon) Score(text string) (polarity, subjectivity float64) {
	var (
		sumP, sumS float64
		hits       int
		negated    bool
	)
	intensity := 1.0

	for _, tok := range tokenize(text) {
		if negations[tok] || strings.HasSuffix(tok, "n't") {
			negated = true
			continue
		}
		if m, ok := intensifiers[tok]; ok {
			intensity *= m
			continue
		}
		e, ok := words[tok]
		if !ok {
			continue
		}

		p := e.polarity * intensity
		if negated {
			p *= negationFactor
		}
		sumP += clamp(p, -1, 1)
		sumS += clamp(e.subjectivity*intensity, 0, 1)
		hits++

		negated = false
		intensity = 1.0
	}

	if hits == 0 {
		return 0, 0
	}
	return sumP / float64(hits), sumS / float64(hits)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
