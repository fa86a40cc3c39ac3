package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadWeights(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Quality["return_on_equity"] = 0.5 // sum now 1.2
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Rating.ValueWeight = 0.5 // rating sum now 1.15
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedScenario(t *testing.T) {
	cfg := Default()
	cfg.Scenario.BearGrowthOffset = 0.05
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Scenario.ExitMultiple.Bear = 25 // above base
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Rating.Bands = [4]float64{20, 40, 30, 80}
	assert.Error(t, cfg.Validate())
}

func TestLoadHJSONOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.hjson")
	body := `{
		// analyst overrides
		valuation: {
			horizon_years: 7
		}
		scenario: {
			default_discount: 0.11
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Valuation.HorizonYears)
	assert.Equal(t, 0.11, cfg.Scenario.DefaultDiscount)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.02, cfg.Scenario.DefaultGrowth)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	body := "valuation:\n  fcf_lookback: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Valuation.FCFLookback)
}

func TestLoadRejectsInvalidOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	body := "valuation:\n  horizon_years: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
