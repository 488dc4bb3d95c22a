package cmd

import (
	"fmt"
	"strings"

	"github.com/cormacl/synprune/internal/app"
	"github.com/cormacl/synprune/internal/domain/reporter"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// formatStats formats wordlist statistics for terminal display.
//
//	⚡ 12 languages │ 207 meanings │ 2815 forms
//	  synonymy ratio:  1.1333 (forms / languages*meanings)
//	  max forms per (language, meaning) pair: 4
//
// Without color it falls back to the reporter's plain line-per-figure
// rendering, which pipes and log files get.
func formatStats(s reporter.Stats, color bool) string {
	if !color {
		return s.Format()
	}
	bold, cyan, gray, reset := colorBold, colorCyan, colorGray, colorReset

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d languages │ %d meanings │ %d forms%s\n",
		bold, s.Languages, s.Meanings, s.Forms, reset))
	sb.WriteString(fmt.Sprintf("  %ssynonymy ratio:%s  %.4f %s(forms / languages*meanings)%s\n",
		cyan, reset, s.SynonymyRatio, gray, reset))
	sb.WriteString(fmt.Sprintf("  %smax forms per (language, meaning) pair:%s %d\n",
		cyan, reset, s.MaxForms))
	return sb.String()
}

// formatReduce formats a reduction summary.
//
//	⚡ kept 2484 of 2815 forms (mincog) → synprune-out
//	  seed: 1724371200000000000  cache: hit
func formatReduce(r app.ReduceResult, color bool) string {
	bold, gray, reset := "", "", ""
	if color {
		bold, gray, reset = colorBold, colorGray, colorReset
	}

	cache := "miss"
	if r.CacheHit {
		cache = "hit"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ kept %d of %d forms (%s) → %s%s\n",
		bold, r.Kept, r.Total, r.Mode, r.OutDir, reset))
	sb.WriteString(fmt.Sprintf("  %sseed: %d  cache: %s%s\n", gray, r.Seed, cache, reset))
	return sb.String()
}
