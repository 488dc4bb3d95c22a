// Package reporter computes descriptive synonymy statistics over an
// aggregated wordlist.
package reporter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cormacl/synprune/internal/domain/wordlist"
)

// ErrNoData is returned when the wordlist has no languages or no meanings,
// which would make the synonymy ratio a division by zero.
var ErrNoData = errors.New("wordlist has no languages or no meanings")

// Stats summarizes one wordlist.
type Stats struct {
	Languages int
	Meanings  int
	Forms     int
	// MaxForms is the largest candidate set over all (language, meaning)
	// pairs that have any forms at all. Pairs with no forms don't exist in
	// the aggregate and never enter this maximum.
	MaxForms int
	// SynonymyRatio is Forms / (Languages × Meanings): 1.0 means a fully
	// filled wordlist with no synonyms, >1.0 means synonymy is present.
	SynonymyRatio float64
}

// Compute derives Stats from a wordlist. Returns ErrNoData for a degenerate
// wordlist (zero languages or zero meanings) instead of dividing by zero.
func Compute(wl *wordlist.Wordlist) (Stats, error) {
	s := Stats{
		Languages: len(wl.Languages),
		Meanings:  len(wl.Meanings),
	}
	if s.Languages == 0 || s.Meanings == 0 {
		return Stats{}, ErrNoData
	}

	for _, byMeaning := range wl.Candidates {
		for _, candidates := range byMeaning {
			s.Forms += len(candidates)
			if len(candidates) > s.MaxForms {
				s.MaxForms = len(candidates)
			}
		}
	}
	s.SynonymyRatio = float64(s.Forms) / float64(s.Languages*s.Meanings)
	return s, nil
}

// Format renders Stats as the multi-line report printed by the CLI.
func (s Stats) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d languages.\n", s.Languages)
	fmt.Fprintf(&sb, "%d meanings.\n", s.Meanings)
	fmt.Fprintf(&sb, "%d forms.\n", s.Forms)
	fmt.Fprintf(&sb, "%.4f synonymy ratio (forms / languages*meanings).\n", s.SynonymyRatio)
	fmt.Fprintf(&sb, "maximum %d forms per language-meaning pair.\n", s.MaxForms)
	return sb.String()
}
