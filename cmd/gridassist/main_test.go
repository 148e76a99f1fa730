package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridassist/internal/config"
	"github.com/jgoulah/gridassist/pkg/models"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("7d")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), got, time.Minute)

	_, err = parseDate("yesterday")
	assert.Error(t, err)
	_, err = parseDate("d")
	assert.Error(t, err)
}

func TestFilterByDate(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	rows := []models.ForecastRow{{Date: day(1)}, {Date: day(2)}, {Date: day(3)}}

	assert.Len(t, filterByDate(rows, nil, nil), 3)

	since, until := day(2), day(2)
	got := filterByDate(rows, &since, &until)
	require.Len(t, got, 1)
	assert.Equal(t, day(2), got[0].Date)

	got = filterByDate(rows, &since, nil)
	assert.Len(t, got, 2)
}

func TestDataPathsFlagsOverrideConfig(t *testing.T) {
	t.Cleanup(func() { energyFile, tariffsFile = "", "" })

	cfg := &config.Config{}
	cfg.Data.Energy = "cfg-energy.csv"
	cfg.Data.Billing = "cfg-billing.csv"

	energyFile = "flag-energy.xlsx"
	paths := dataPaths(cfg)
	assert.Equal(t, "flag-energy.xlsx", paths.Energy)
	assert.Equal(t, "cfg-billing.csv", paths.Billing)
	assert.Empty(t, paths.Tariffs)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short text", preview("short\n  text", 60))
	assert.Equal(t, "abcdefg...", preview("abcdefghijklmnop", 10))
}

func TestStarterConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Save(path, starterConfig()))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, "gpt-4", cfg.LLM.CopilotModel)
	assert.Equal(t, 15, cfg.Weather.Days)
	assert.Equal(t, "data/energy.csv", cfg.Data.Energy)
}
