package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cormacl/synprune/internal/adapters/cldf"
	"github.com/cormacl/synprune/internal/config"
	"github.com/cormacl/synprune/internal/domain/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMetadata = `{
  "tables": [
    {"url": "forms.csv", "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#FormTable"},
    {"url": "cognates.csv", "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#CognateTable"},
    {"url": "languages.csv", "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#LanguageTable"}
  ]
}`

const testForms = `ID,Language_ID,Parameter_ID,Form
f1,swe,hand,hand
f2,swe,hand,näve
f3,dan,hand,hånd
f4,isl,hand,hönd
f5,swe,ash,aska
f6,dan,ash,aske
`

const testCognates = `ID,Form_ID,Cognateset_ID
c1,f1,hand-1
c2,f2,hand-2
c3,f3,hand-1
c4,f4,hand-2
c5,f5,ash-1
c6,f6,ash-1
`

const testLanguages = `ID,Name
swe,Swedish
dan,Danish
isl,Icelandic
`

// newTestApp lays out a dataset in a temp dir and returns an App whose
// cache and output live under the same temp root.
func newTestApp(t *testing.T, noCache bool) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Wordlist-metadata.json": testMetadata,
		"forms.csv":              testForms,
		"cognates.csv":           testCognates,
		"languages.csv":          testLanguages,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := config.Config{
		OutDir:   filepath.Join(dir, "out"),
		Seed:     42,
		CacheDir: filepath.Join(dir, "cache"),
		NoCache:  noCache,
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(cfg, log), filepath.Join(dir, "Wordlist-metadata.json")
}

func TestReport(t *testing.T) {
	a, metaPath := newTestApp(t, true)

	stats, err := a.Report(metaPath)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Languages)
	assert.Equal(t, 2, stats.Meanings)
	assert.Equal(t, 6, stats.Forms)
	assert.Equal(t, 2, stats.MaxForms)
	assert.InDelta(t, 1.0, stats.SynonymyRatio, 1e-9) // 6 / (3*2)
}

func TestReport_MissingDatasetIsFatal(t *testing.T) {
	a, _ := newTestApp(t, true)
	_, err := a.Report(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestReduce_WritesFilteredDataset(t *testing.T) {
	a, metaPath := newTestApp(t, true)

	res, err := a.Reduce(metaPath, selector.MinimizeClasses)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 5, res.Kept) // one survivor per (language, meaning) pair

	out, err := cldf.Load(filepath.Join(res.OutDir, "Wordlist-metadata.json"))
	require.NoError(t, err)

	forms, err := out.FormRecords()
	require.NoError(t, err)
	assert.Len(t, forms, 5)

	// No pair retains more than one form.
	pairs := make(map[[2]string]int)
	for _, f := range forms {
		pairs[[2]string{f.LanguageID, f.MeaningID}]++
	}
	for pair, n := range pairs {
		assert.Equal(t, 1, n, "pair %v", pair)
	}

	// Cognate rows only for surviving forms.
	cognates, err := out.CognateRecords()
	require.NoError(t, err)
	survived := make(map[string]bool, len(forms))
	for _, f := range forms {
		survived[f.ID] = true
	}
	for _, c := range cognates {
		assert.True(t, survived[c.FormID], "cognate row for removed form %s", c.FormID)
	}

	// Language metadata passes through unfiltered.
	require.Len(t, out.Others, 1)
	langRows, err := out.Others[0].Rows()
	require.NoError(t, err)
	assert.Len(t, langRows, 3)
}

func TestReport_CacheHitServesWithoutReparsingTables(t *testing.T) {
	a, metaPath := newTestApp(t, false)

	first, err := a.Report(metaPath)
	require.NoError(t, err)

	// Corrupt the form table in place with a bare quote, keeping byte
	// length and mtime so the fingerprint is unchanged. A warm cache must
	// serve the aggregate without ever opening the CSV again.
	formsPath := filepath.Join(filepath.Dir(metaPath), "forms.csv")
	info, err := os.Stat(formsPath)
	require.NoError(t, err)
	corrupted := []byte(strings.Replace(testForms, "hand", `ha"d`, 1))
	require.Equal(t, info.Size(), int64(len(corrupted)))
	require.NoError(t, os.WriteFile(formsPath, corrupted, 0o644))
	require.NoError(t, os.Chtimes(formsPath, info.ModTime(), info.ModTime()))

	second, err := a.Report(metaPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReduce_FixedSeedIsReproducible(t *testing.T) {
	a, metaPath := newTestApp(t, true)

	first, err := a.Reduce(metaPath, selector.Random)
	require.NoError(t, err)
	firstForms, err := os.ReadFile(filepath.Join(first.OutDir, "forms.csv"))
	require.NoError(t, err)

	second, err := a.Reduce(metaPath, selector.Random)
	require.NoError(t, err)
	secondForms, err := os.ReadFile(filepath.Join(second.OutDir, "forms.csv"))
	require.NoError(t, err)

	assert.Equal(t, firstForms, secondForms)
	assert.Equal(t, first.Seed, second.Seed)
}

func TestReduce_SecondRunHitsCache(t *testing.T) {
	a, metaPath := newTestApp(t, false)

	first, err := a.Reduce(metaPath, selector.MaximizeClasses)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := a.Reduce(metaPath, selector.MaximizeClasses)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)

	// The cache only skips parsing; results are identical.
	assert.Equal(t, first.Kept, second.Kept)
	assert.Equal(t, first.Total, second.Total)
}

func TestReduce_DatasetEditInvalidatesCache(t *testing.T) {
	a, metaPath := newTestApp(t, false)

	_, err := a.Reduce(metaPath, selector.MinimizeClasses)
	require.NoError(t, err)

	formsPath := filepath.Join(filepath.Dir(metaPath), "forms.csv")
	require.NoError(t, os.WriteFile(formsPath, []byte(testForms+"f7,isl,ash,aska\n"), 0o644))

	res, err := a.Reduce(metaPath, selector.MinimizeClasses)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, 6, res.Kept)
}

func TestWatch_FiresOnDatasetChange(t *testing.T) {
	a, metaPath := newTestApp(t, true)

	changed := make(chan struct{}, 4)
	stop, err := a.Watch(metaPath, func() { changed <- struct{}{} })
	require.NoError(t, err)
	defer stop()

	formsPath := filepath.Join(filepath.Dir(metaPath), "forms.csv")
	require.NoError(t, os.WriteFile(formsPath, []byte(testForms), 0o644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}
