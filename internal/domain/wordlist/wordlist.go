// Package wordlist builds the in-memory view of a lexical dataset that the
// selectors and the reporter operate on: the language and meaning sets, the
// per-(language, meaning) candidate form lists, and the form → cognate class
// assignment map. The view is derived once per run and never mutated.
package wordlist

import (
	"sort"

	"github.com/cormacl/synprune/internal/ports"
)

// LanguageID identifies one language variety in the dataset.
type LanguageID string

// MeaningID identifies one meaning (concept) being expressed.
type MeaningID string

// FormID identifies one recorded lexical item.
type FormID string

// ClassID identifies one cognate class.
type ClassID string

// CognateClass is a tagged cognate-class value. The zero value means
// "unclassified" and compares unequal to every real class, so it can never
// collide with a real class identifier the way a string sentinel could.
type CognateClass struct {
	ID    ClassID `json:"id"`
	Known bool    `json:"known"`
}

// Unclassified is the class of a form with no cognate assignment.
var Unclassified = CognateClass{}

// Class wraps a real class identifier.
func Class(id ClassID) CognateClass {
	return CognateClass{ID: id, Known: true}
}

// Wordlist is the aggregated, read-only view of one dataset.
//
// Languages and Meanings are sorted ascending by identifier. That ordering is
// what the selectors iterate in, which pins down both the RNG draw sequence
// of the random strategy and the hard-language processing order of the
// minimax strategies, making every mode reproducible run-to-run.
//
// All fields are plain JSON-serializable maps and slices so an aggregate can
// round-trip through the cache store unchanged.
type Wordlist struct {
	Languages []LanguageID `json:"languages"`
	Meanings  []MeaningID  `json:"meanings"`

	// Candidates maps language → meaning → form IDs in input order.
	// A (language, meaning) pair with no recorded forms has no entry;
	// empty candidate lists are never materialized.
	Candidates map[LanguageID]map[MeaningID][]FormID `json:"candidates"`

	// Assignments maps form ID → cognate class ID. Absence means the form
	// is unclassified. May contain assignments for form IDs that appear in
	// no form record; those entries are inert.
	Assignments map[FormID]ClassID `json:"assignments"`
}

// Aggregate derives a Wordlist from raw form and cognate records in one pass
// over each stream.
//
// Duplicate cognate assignments to the same form are not an error: last write
// wins. Assignments referencing unknown forms are retained but never looked
// up. Both behaviors mirror how downstream tooling treats real datasets,
// which are frequently messy in exactly these ways.
func Aggregate(forms []ports.FormRecord, cognates []ports.CognateRecord) *Wordlist {
	wl := &Wordlist{
		Candidates:  make(map[LanguageID]map[MeaningID][]FormID),
		Assignments: make(map[FormID]ClassID, len(cognates)),
	}

	langSeen := make(map[LanguageID]bool)
	meaningSeen := make(map[MeaningID]bool)

	for _, f := range forms {
		lang := LanguageID(f.LanguageID)
		meaning := MeaningID(f.MeaningID)

		if !langSeen[lang] {
			langSeen[lang] = true
			wl.Languages = append(wl.Languages, lang)
		}
		if !meaningSeen[meaning] {
			meaningSeen[meaning] = true
			wl.Meanings = append(wl.Meanings, meaning)
		}

		byMeaning := wl.Candidates[lang]
		if byMeaning == nil {
			byMeaning = make(map[MeaningID][]FormID)
			wl.Candidates[lang] = byMeaning
		}
		byMeaning[meaning] = append(byMeaning[meaning], FormID(f.ID))
	}

	for _, c := range cognates {
		wl.Assignments[FormID(c.FormID)] = ClassID(c.ClassID)
	}

	sort.Slice(wl.Languages, func(i, j int) bool { return wl.Languages[i] < wl.Languages[j] })
	sort.Slice(wl.Meanings, func(i, j int) bool { return wl.Meanings[i] < wl.Meanings[j] })

	return wl
}

// CandidateSet returns the candidate forms for one (language, meaning) pair
// in input order. Nil if the pair has no recorded forms.
func (wl *Wordlist) CandidateSet(lang LanguageID, meaning MeaningID) []FormID {
	return wl.Candidates[lang][meaning]
}

// ClassOf resolves a form's cognate class, or Unclassified if the form has
// no assignment.
func (wl *Wordlist) ClassOf(f FormID) CognateClass {
	if id, ok := wl.Assignments[f]; ok {
		return Class(id)
	}
	return Unclassified
}
