package recommendation

import (
	"math"
	"strings"
	"unicode"
)

// Similarity scores how close text is to query. Scores are compared only
// with each other; zero means unrelated.
type Similarity interface {
	Score(query, text string) float64
}

// TokenCosine is the cosine of the term frequency vectors of the two texts.
type TokenCosine struct{}

func tokens(s string) map[string]float64 {
	tf := make(map[string]float64)
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tf[w]++
	}
	return tf
}

func norm(tf map[string]float64) float64 {
	var sum float64
	for _, v := range tf {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (TokenCosine) Score(query, text string) float64 {
	q, d := tokens(query), tokens(text)
	if len(q) == 0 || len(d) == 0 {
		return 0
	}

	var dot float64
	for w, v := range q {
		dot += v * d[w]
	}

	return dot / (norm(q) * norm(d))
}
