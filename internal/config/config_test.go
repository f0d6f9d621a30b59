package config

import (
	"os"
	"path/filepath"
	"testing"

	"skin-sight/internal/calibration"
	"skin-sight/internal/pasi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "trunk", cfg.Assessment.BodyRegion)
	assert.Equal(t, 8.0, cfg.Calibration.DiameterMM)
	assert.Equal(t, 40.0, cfg.Calibration.HueMin)
	assert.Equal(t, 80.0, cfg.Calibration.HueMax)
	assert.Equal(t, 50.0, cfg.Calibration.SatMin)
	assert.Equal(t, 50.0, cfg.Calibration.ValMin)
	assert.True(t, cfg.Output.Pretty)
	assert.False(t, cfg.Output.Verbose)
	assert.Empty(t, cfg.Output.AnnotatePath)
	assert.Equal(t, "skinsight.db", cfg.History.Path)
	assert.Empty(t, cfg.History.Lesion)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, calibration.DefaultParams(), cfg.CalibrationParams())
	assert.Equal(t, pasi.Trunk, cfg.Region())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skinsight.yaml")
	yml := `
assessment:
  bodyRegion: lower_limbs
calibration:
  diameterMM: 10
output:
  chartPath: chart.png
  pretty: false
history:
  lesion: left-elbow
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, pasi.LowerLimbs, cfg.Region())
	assert.Equal(t, 10.0, cfg.Calibration.DiameterMM)
	assert.Equal(t, 40.0, cfg.Calibration.HueMin)
	assert.Equal(t, "chart.png", cfg.Output.ChartPath)
	assert.False(t, cfg.Output.Pretty)
	assert.Equal(t, "left-elbow", cfg.History.Lesion)
	assert.Equal(t, "skinsight.db", cfg.History.Path)

	params := cfg.CalibrationParams()
	assert.Equal(t, 10.0, params.DiameterMM)
	assert.Equal(t, calibration.DefaultParams().Color, params.Color)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"bad yaml":      "calibration: [",
		"zero diameter": "calibration:\n  diameterMM: 0\n",
		"hue order":     "calibration:\n  hueMin: 90\n  hueMax: 80\n",
		"hue scale":     "calibration:\n  hueMax: 300\n",
		"saturation":    "calibration:\n  satMin: 300\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "skinsight.yaml")

	cfg := DefaultConfig()
	cfg.Assessment.BodyRegion = "head"
	cfg.Output.AnnotatePath = "out.png"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
