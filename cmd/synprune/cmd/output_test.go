package cmd

import (
	"testing"

	"github.com/cormacl/synprune/internal/app"
	"github.com/cormacl/synprune/internal/domain/reporter"
	"github.com/stretchr/testify/assert"
)

func TestFormatStats_PlainFallsBackToReporterFormat(t *testing.T) {
	s := reporter.Stats{Languages: 12, Meanings: 207, Forms: 2815, MaxForms: 4, SynonymyRatio: 1.1333}

	plain := formatStats(s, false)
	assert.Equal(t, s.Format(), plain)
	assert.NotContains(t, plain, colorBold)

	colored := formatStats(s, true)
	assert.Contains(t, colored, colorBold)
	assert.Contains(t, colored, "12 languages")
}

func TestFormatReduce(t *testing.T) {
	r := app.ReduceResult{Kept: 5, Total: 6, OutDir: "out", Seed: 42, CacheHit: true}

	out := formatReduce(r, false)
	assert.Contains(t, out, "kept 5 of 6 forms")
	assert.Contains(t, out, "seed: 42")
	assert.Contains(t, out, "cache: hit")
	assert.NotContains(t, out, colorBold)
}
