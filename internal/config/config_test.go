package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelth-com/eckcheckin/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"QR_BASE_URL", "QR_WAREHOUSES", "QR_OUTPUT_DIR", "QR_MODULE_SIZE", "QR_QUIET_ZONE",
		"QR_MIN_VERSION", "QR_FONT_PATH", "GATEWAY_BASE_URL", "GATEWAY_TIMEOUT", "GATEWAY_CHECKS_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultQRBaseURL, cfg.QR.BaseURL)
	assert.Equal(t, DefaultWarehouses, cfg.QR.Warehouses)
	assert.Equal(t, DefaultOutputDir, cfg.QR.OutputDir)
	assert.Equal(t, 10, cfg.QR.ModuleSize)
	assert.Equal(t, 4, cfg.QR.QuietZone)
	assert.Equal(t, DefaultGatewayBaseURL, cfg.Gateway.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Empty(t, cfg.Gateway.ChecksFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QR_BASE_URL", "https://visitors.example.com/")
	t.Setenv("QR_WAREHOUSES", "W1, W2 ,,W3")
	t.Setenv("QR_MODULE_SIZE", "6")
	t.Setenv("QR_QUIET_ZONE", "2")
	t.Setenv("GATEWAY_BASE_URL", "https://api.example.com/prod/")
	t.Setenv("GATEWAY_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://visitors.example.com", cfg.QR.BaseURL)
	assert.Equal(t, []models.WarehouseID{"W1", "W2", "W3"}, cfg.QR.Warehouses)
	assert.Equal(t, 6, cfg.QR.ModuleSize)
	assert.Equal(t, 2, cfg.QR.QuietZone)
	assert.Equal(t, "https://api.example.com/prod", cfg.Gateway.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("QR_MODULE_SIZE", "ten")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("QR_MODULE_SIZE", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.QR.Validate())

	t.Setenv("QR_MODULE_SIZE", "")
	t.Setenv("GATEWAY_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadEndpointsDefault(t *testing.T) {
	eps, err := LoadEndpoints("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEndpoints, eps)

	// Callers get a copy
	eps[0].Name = "changed"
	assert.Equal(t, "Root endpoint", models.DefaultEndpoints[0].Name)
}

func TestLoadEndpointsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.yaml")
	data := `checks:
  - path: /health
    name: Health
  - path: " /api/visitors "
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	eps, err := LoadEndpoints(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Endpoint{
		{Path: "/health", Name: "Health"},
		{Path: "/api/visitors", Name: "/api/visitors"},
	}, eps)
}

func TestParseEndpointsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty":     "checks: []\n",
		"bad yaml":  "checks: [\n",
		"bad path":  "checks:\n  - path: docs\n",
		"no checks": "other: 1\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEndpoints([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidChecks)
		})
	}
}

func TestLoadEndpointsMissingFile(t *testing.T) {
	_, err := LoadEndpoints(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestQRConfigValidate(t *testing.T) {
	valid := QRConfig{
		BaseURL:    DefaultQRBaseURL,
		Warehouses: DefaultWarehouses,
		OutputDir:  DefaultOutputDir,
		ModuleSize: DefaultModuleSize,
		QuietZone:  DefaultQuietZone,
		MinVersion: DefaultMinVersion,
	}
	assert.NoError(t, valid.Validate())

	noURL := valid
	noURL.BaseURL = ""
	assert.Error(t, noURL.Validate())

	noWarehouses := valid
	noWarehouses.Warehouses = nil
	assert.Error(t, noWarehouses.Validate())

	negativeZone := valid
	negativeZone.QuietZone = -1
	assert.Error(t, negativeZone.Validate())

	tooLarge := valid
	tooLarge.MinVersion = 41
	assert.Error(t, tooLarge.Validate())
}
