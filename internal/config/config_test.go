package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file", c.StoreDriver)
	assert.Empty(t, c.StorePath)
	loc, err := c.StoreLocation()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".spendlens", "store.json"), loc)
	assert.Equal(t, 200.0, c.RadarOuterRadius)
	assert.Equal(t, 5, c.RadarLevels)
	require.Len(t, c.IncomeBrackets, 3)

	bs, err := c.Brackets()
	require.NoError(t, err)
	b, err := bs.Lookup("75-150")
	require.NoError(t, err)
	assert.True(t, b.Contains(75))
	assert.False(t, b.Contains(150))
}

func TestLoadEnvOverrides(t *testing.T) {
	home := isolate(t)
	t.Setenv("SPENDLENS_STORE_DRIVER", "sqlite")
	t.Setenv("SPENDLENS_DATA_PATH", "/tmp/x.csv")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.StoreDriver)
	assert.Equal(t, "/tmp/x.csv", c.DataPath)
	loc, err := c.StoreLocation()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".spendlens", "store.db"), loc)
}

func TestSaveLeavesDefaultStorePathUnset(t *testing.T) {
	home := isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, Save(c, ""))

	b, err := os.ReadFile(filepath.Join(home, ".spendlens", "config.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "store_path")

	require.NoError(t, c.Set("store_driver", "sqlite"))
	require.NoError(t, Save(c, ""))
	reloaded, err := Load("")
	require.NoError(t, err)
	loc, err := reloaded.StoreLocation()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".spendlens", "store.db"), loc)
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("SPENDLENS_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SPENDLENS_LOG_LEVEL") })
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestSaveAndReloadBrackets(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	c := &Global{
		DataPath: "d.csv",
		IncomeBrackets: []IncomeBracket{
			{Label: "low", Max: f64(100)},
			{Label: "high", Min: f64(100)},
		},
	}
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "d.csv", got.DataPath)
	require.Len(t, got.IncomeBrackets, 2)
	assert.Nil(t, got.IncomeBrackets[0].Min)
	require.NotNil(t, got.IncomeBrackets[1].Min)
	assert.Equal(t, 100.0, *got.IncomeBrackets[1].Min)

	bs, err := got.Brackets()
	require.NoError(t, err)
	label, ok := bs.Classify(-20)
	require.True(t, ok)
	assert.Equal(t, "low", label)
}

func TestBracketsRejectsGaps(t *testing.T) {
	c := &Global{IncomeBrackets: []IncomeBracket{
		{Label: "a", Max: f64(10)},
		{Label: "b", Min: f64(20)},
	}}
	_, err := c.Brackets()
	assert.Error(t, err)
}

func TestSet(t *testing.T) {
	c := &Global{}
	require.NoError(t, c.Set("store_driver", "SQLite"))
	assert.Equal(t, "sqlite", c.StoreDriver)
	require.NoError(t, c.Set("radar_levels", "4"))
	assert.Equal(t, 4, c.RadarLevels)
	assert.Error(t, c.Set("store_driver", "redis"))
	assert.Error(t, c.Set("radar_outer_radius", "-1"))
	assert.Error(t, c.Set("income_brackets", "x"))
}
