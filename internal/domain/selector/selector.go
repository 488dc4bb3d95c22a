// Package selector decides which form survives when a (language, meaning)
// pair has several recorded forms. Three strategies: uniform-random choice,
// and two cognate-aware heuristics that greedily minimize or maximize the
// number of distinct cognate classes left attested after reduction.
package selector

import (
	"fmt"
	"math/rand"

	"github.com/cormacl/synprune/internal/domain/wordlist"
)

// Mode selects the reduction strategy.
type Mode int

const (
	// Random keeps one form per pair, chosen uniformly at random.
	Random Mode = iota
	// MinimizeClasses greedily reuses already-attested cognate classes.
	MinimizeClasses
	// MaximizeClasses greedily introduces not-yet-attested cognate classes.
	MaximizeClasses
)

// String returns the mode name as shown in CLI output and logs.
func (m Mode) String() string {
	switch m {
	case Random:
		return "random"
	case MinimizeClasses:
		return "mincog"
	case MaximizeClasses:
		return "maxcog"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Survivors is the set of form IDs retained by a reduction.
type Survivors map[wordlist.FormID]struct{}

// Contains reports whether a form survived.
func (s Survivors) Contains(f wordlist.FormID) bool {
	_, ok := s[f]
	return ok
}

// Reduce runs one reduction strategy over the whole wordlist and returns the
// survivor set: exactly one form per (language, meaning) pair that has any
// candidates, no entry for pairs that have none.
//
// rng is the only source of nondeterminism. Random draws from it for every
// pair; the minimax modes draw only on their unclassified fallback path.
// Callers that need reproducible output pass a seeded *rand.Rand.
func Reduce(wl *wordlist.Wordlist, mode Mode, rng *rand.Rand) Survivors {
	switch mode {
	case MinimizeClasses:
		return reduceMinimax(wl, false, rng)
	case MaximizeClasses:
		return reduceMinimax(wl, true, rng)
	default:
		return reduceRandom(wl, rng)
	}
}

// reduceRandom picks one form uniformly at random from every non-empty
// candidate set. Iteration follows the wordlist's sorted language and
// meaning order so a fixed seed yields a fixed draw sequence.
func reduceRandom(wl *wordlist.Wordlist, rng *rand.Rand) Survivors {
	keep := make(Survivors)
	for _, lang := range wl.Languages {
		for _, meaning := range wl.Meanings {
			candidates := wl.CandidateSet(lang, meaning)
			if len(candidates) == 0 {
				continue
			}
			keep[candidates[rng.Intn(len(candidates))]] = struct{}{}
		}
	}
	return keep
}
