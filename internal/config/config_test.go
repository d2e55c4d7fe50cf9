package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alishbarana/InnoLearn/internal/semantic"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_KDLResolvesVocabularyPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, KDLFileName, `vocabulary { path "terms/cs.kdl" }`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "terms", "cs.kdl"), cfg.Vocabulary.Path)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.toml", "[cache]\nsize = 16\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Cache.Size)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.kdl"))
	assert.Error(t, err)

	dir := t.TempDir()
	path := writeFile(t, dir, KDLFileName, `cache {`)
	_, err = Load(path)
	assert.ErrorContains(t, err, path)
}

func TestLoadFromDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	t.Run("defaults when no file", func(t *testing.T) {
		cfg, err := LoadFromDir(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("kdl preferred over toml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, KDLFileName, `cache { size 1; }`)
		writeFile(t, dir, TOMLFileName, "[cache]\nsize = 2\n")

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Cache.Size)
	})

	t.Run("toml when alone", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, TOMLFileName, "[cache]\nsize = 2\n")

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Cache.Size)
	})
}

func TestRecognitionOptions(t *testing.T) {
	cfg := Default()
	cfg.Matching.Stemming = true
	cfg.Matching.FoldAccents = true
	cfg.Classifier.StableSoftmax = true
	cfg.Cache.Size = 9
	cfg.Batch.Workers = 3

	opts := cfg.RecognitionOptions()
	assert.Equal(t, semantic.DefaultThresholds, opts.Matching.Thresholds)
	assert.True(t, opts.Matching.Stemming)
	assert.True(t, opts.Matching.Normalize)
	assert.True(t, opts.Matching.FoldAccents)
	assert.True(t, opts.Classifier.StableSoftmax)
	assert.Equal(t, 9, opts.CacheSize)
	assert.Equal(t, 3, opts.BatchWorkers)
}

func TestLoadVocabulary(t *testing.T) {
	cfg := Default()
	table, err := cfg.LoadVocabulary()
	require.NoError(t, err)
	assert.Same(t, vocabulary.Default(), table)

	cfg.Vocabulary.Path = writeFile(t, t.TempDir(), "terms.kdl", `
category "heap" {
    forms "heap" "min heap"
}
`)
	table, err = cfg.LoadVocabulary()
	require.NoError(t, err)
	assert.Equal(t, []string{"heap"}, table.Categories())

	assert.Equal(t, vocabulary.DefaultReloadDebounce, Default().WatchDebounce())
	cfg.Vocabulary.WatchDebounceMs = 50
	assert.Equal(t, 50*time.Millisecond, cfg.WatchDebounce())
}
