package llm

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/jask/formdesk/internal/fields"
)

// DefaultMinSimilarity is the lowest normalized similarity accepted as a match.
const DefaultMinSimilarity = 0.6

// ErrNoMatch is returned when no source key is close enough to any
// destination column.
var ErrNoMatch = errors.New("no source field matches a destination column")

// HeuristicMapper maps rows without a model by matching source keys to
// destination columns on normalized edit distance. It is the offline
// fallback.
type HeuristicMapper struct {
	MinSimilarity float64
}

// NewHeuristicMapper returns a mapper with the default threshold.
func NewHeuristicMapper() *HeuristicMapper {
	return &HeuristicMapper{MinSimilarity: DefaultMinSimilarity}
}

// MapRow assigns each destination column the value of its most similar
// source key. Each source key is used at most once; columns without a close
// enough key are left out. A row matching no column fails with ErrNoMatch.
func (h *HeuristicMapper) MapRow(ctx context.Context, row map[string]fields.Value, columns []string) (Mapped, error) {
	if err := ctx.Err(); err != nil {
		return Mapped{}, err
	}
	threshold := h.MinSimilarity
	if threshold <= 0 {
		threshold = DefaultMinSimilarity
	}

	used := make(map[string]bool, len(row))
	out := Mapped{Fields: map[string]fields.Value{}}
	for _, col := range columns {
		best, bestScore := "", 0.0
		for key, v := range row {
			if used[key] || v.IsNull() {
				continue
			}
			score := similarity(normalize(col), normalize(key))
			if score > bestScore || (score == bestScore && key < best) {
				best, bestScore = key, score
			}
		}
		if best == "" || bestScore < threshold {
			continue
		}
		used[best] = true
		out.Fields[col] = row[best]
		out.Keys = append(out.Keys, col)
	}
	if len(out.Keys) == 0 {
		return Mapped{}, ErrNoMatch
	}
	return out, nil
}

// similarity is 1 - distance/maxLen, in [0,1].
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	n := len([]rune(a))
	if m := len([]rune(b)); m > n {
		n = m
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(n)
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
