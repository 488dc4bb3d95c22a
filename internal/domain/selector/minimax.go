package selector

import (
	"math/rand"
	"sort"

	"github.com/cormacl/synprune/internal/domain/wordlist"
)

// option pairs a candidate cognate class with its global count for the
// current meaning. The unclassified class always carries count 0.
type option struct {
	count int
	class wordlist.CognateClass
}

// reduceMinimax runs the cognate-aware reduction. Meanings are independent:
// each gets a fresh class-count table and a fresh attested set, both discarded
// once the meaning's survivors are chosen.
func reduceMinimax(wl *wordlist.Wordlist, maximize bool, rng *rand.Rand) Survivors {
	keep := make(Survivors)
	for _, meaning := range wl.Meanings {
		assigned := assignClasses(wl, meaning, maximize)

		// Translate each language's assigned class into a surviving form.
		for _, lang := range wl.Languages {
			candidates := wl.CandidateSet(lang, meaning)
			if len(candidates) == 0 {
				continue
			}
			class := assigned[lang]
			if !class.Known {
				// No class to honor; fall back to a uniform draw,
				// same as the random strategy scoped to this pair.
				keep[candidates[rng.Intn(len(candidates))]] = struct{}{}
				continue
			}
			for _, f := range candidates {
				if wl.ClassOf(f) == class {
					keep[f] = struct{}{}
					break
				}
			}
		}
	}
	return keep
}

// assignClasses decides, for one meaning, which cognate class each language
// keeps. Languages with 0 or 1 candidates are forced ("easy"); the rest are
// resolved greedily against the attested set ("hard").
//
// Hard languages are processed in ascending language-ID order. The choice for
// each depends on the attested set at the moment it is processed, so the
// order is part of the algorithm's observable behavior; sorting it makes both
// minimax modes deterministic.
func assignClasses(wl *wordlist.Wordlist, meaning wordlist.MeaningID, maximize bool) map[wordlist.LanguageID]wordlist.CognateClass {
	// Class-count pass: tally, per class, how many candidate forms across
	// all languages resolve to it. Counts deliberately reflect the raw,
	// synonym-inflated data — they are computed before any reduction.
	counts := make(map[wordlist.CognateClass]int)
	classes := make(map[wordlist.LanguageID][]wordlist.CognateClass, len(wl.Languages))
	for _, lang := range wl.Languages {
		candidates := wl.CandidateSet(lang, meaning)
		resolved := make([]wordlist.CognateClass, len(candidates))
		for i, f := range candidates {
			resolved[i] = wl.ClassOf(f)
			if resolved[i].Known {
				counts[resolved[i]]++
			}
		}
		classes[lang] = resolved
	}

	assigned := make(map[wordlist.LanguageID]wordlist.CognateClass, len(wl.Languages))
	attested := make(map[wordlist.CognateClass]bool)
	var hard []wordlist.LanguageID

	for _, lang := range wl.Languages {
		switch resolved := classes[lang]; len(resolved) {
		case 0:
			assigned[lang] = wordlist.Unclassified
		case 1:
			assigned[lang] = resolved[0]
			if resolved[0].Known {
				attested[resolved[0]] = true
			}
		default:
			hard = append(hard, lang)
		}
	}

	for _, lang := range hard {
		options := make([]option, 0, len(classes[lang]))
		for _, c := range classes[lang] {
			options = append(options, option{count: counts[c], class: c})
		}
		// Minimize wants the globally most common class first, maximize
		// the rarest. Ties break on class ID ascending in both modes.
		sort.Slice(options, func(i, j int) bool {
			if options[i].count != options[j].count {
				if maximize {
					return options[i].count < options[j].count
				}
				return options[i].count > options[j].count
			}
			return options[i].class.ID < options[j].class.ID
		})

		// Priority-fallback scan: take the first class that reuses (min)
		// or extends (max) the attested set, else the sorted head.
		chosen := options[0].class
		for _, o := range options {
			if attested[o.class] != maximize {
				chosen = o.class
				break
			}
		}
		assigned[lang] = chosen
		attested[chosen] = true
	}

	return assigned
}
