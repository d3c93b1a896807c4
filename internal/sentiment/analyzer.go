// Package sentiment scores English text against a word lexicon, producing a
// polarity in [-1, 1] and a subjectivity in [0, 1].
package sentiment

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

//go:embed lexicon.csv
var defaultLexicon []byte

// negationFactor is applied to the polarity of a negated word.
const negationFactor = -0.5

var tokenRegex = regexp.MustCompile(`[a-z]+(?:'[a-z]+)?`)

var negators = map[string]bool{"not": true, "never": true, "no": true, "nor": true, "cannot": true}

// Entry is one lexicon word.
type Entry struct {
	Polarity     float64
	Subjectivity float64
	Intensity    float64
}

// Score is the result of analysing one text.
type Score struct {
	Polarity     float64
	Subjectivity float64
}

// Analyzer holds a parsed lexicon. It is safe for concurrent use.
type Analyzer struct {
	lexicon map[string]Entry
}

// New returns an Analyzer over the embedded lexicon.
func New() *Analyzer {
	a, err := NewFromReader(bytes.NewReader(defaultLexicon))
	if err != nil {
		panic(fmt.Sprintf("sentiment: embedded lexicon: %v", err))
	}
	return a
}

// NewFromReader parses a lexicon CSV with a word,polarity,subjectivity,intensity header.
func NewFromReader(r io.Reader) (*Analyzer, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read lexicon: empty")
	}

	lex := make(map[string]Entry, len(rows)-1)
	for i, row := range rows[1:] {
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("lexicon line %d: %w", i+2, err)
			}
			vals[j] = v
		}
		lex[strings.ToLower(strings.TrimSpace(row[0]))] = Entry{Polarity: vals[0], Subjectivity: vals[1], Intensity: vals[2]}
	}
	return &Analyzer{lexicon: lex}, nil
}

// Analyze scores text. Text with no lexicon words scores (0, 0).
func (a *Analyzer) Analyze(text string) Score {
	tokens := tokenRegex.FindAllString(strings.ToLower(text), -1)

	var polSum, subjSum float64
	var n int
	negate := false
	boost := 1.0
	for i, tok := range tokens {
		if negators[tok] || strings.HasSuffix(tok, "n't") {
			negate = true
			continue
		}
		e, ok := a.lexicon[tok]
		if !ok {
			continue
		}
		// A modifier directly before a scored word boosts it instead of counting.
		if e.Intensity != 1 && i+1 < len(tokens) {
			if _, next := a.lexicon[tokens[i+1]]; next {
				boost *= e.Intensity
				continue
			}
		}

		pol, subj := e.Polarity*boost, e.Subjectivity*boost
		if negate {
			pol *= negationFactor
		}
		polSum += pol
		subjSum += subj
		n++
		negate = false
		boost = 1
	}
	if n == 0 {
		return Score{}
	}
	return Score{
		Polarity:     clamp(polSum/float64(n), -1, 1),
		Subjectivity: clamp(subjSum/float64(n), 0, 1),
	}
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
