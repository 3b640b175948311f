package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/xelth-com/eckcheckin/internal/models"
)

// Defaults. BaseURL must be changed to the deployed visitor app before printing.
const (
	DefaultQRBaseURL      = "https://your-deployed-app.com"
	DefaultOutputDir      = "warehouse_qr_codes"
	DefaultModuleSize     = 10
	DefaultQuietZone      = 4
	DefaultMinVersion     = 1
	DefaultGatewayBaseURL = "https://your-api-id.execute-api.ap-south-1.amazonaws.com/prod"
	DefaultGatewayTimeout = 10 * time.Second
)

// DefaultWarehouses are the security cabins that get a check-in QR code
var DefaultWarehouses = []models.WarehouseID{"W202", "A185", "A68", "A101", "F53"}

// Config holds all application configuration
type Config struct {
	QR      QRConfig
	Gateway GatewayConfig
}

// QRConfig holds QR artifact generation settings
type QRConfig struct {
	BaseURL    string
	Warehouses []models.WarehouseID
	OutputDir  string
	ModuleSize int // pixels per QR module
	QuietZone  int // border width in modules
	MinVersion int
	FontPath   string // preferred TrueType font, tried before the system list
}

// GatewayConfig holds API gateway smoke check settings
type GatewayConfig struct {
	BaseURL    string
	Timeout    time.Duration
	ChecksFile string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	moduleSize, err := getEnvInt("QR_MODULE_SIZE", DefaultModuleSize)
	if err != nil {
		return nil, err
	}
	quietZone, err := getEnvInt("QR_QUIET_ZONE", DefaultQuietZone)
	if err != nil {
		return nil, err
	}
	minVersion, err := getEnvInt("QR_MIN_VERSION", DefaultMinVersion)
	if err != nil {
		return nil, err
	}

	timeout := DefaultGatewayTimeout
	if raw := os.Getenv("GATEWAY_TIMEOUT"); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("GATEWAY_TIMEOUT: %w", err)
		}
	}

	cfg := &Config{
		QR: QRConfig{
			BaseURL:    strings.TrimRight(getEnv("QR_BASE_URL", DefaultQRBaseURL), "/"),
			Warehouses: ParseWarehouses(os.Getenv("QR_WAREHOUSES")),
			OutputDir:  getEnv("QR_OUTPUT_DIR", DefaultOutputDir),
			ModuleSize: moduleSize,
			QuietZone:  quietZone,
			MinVersion: minVersion,
			FontPath:   os.Getenv("QR_FONT_PATH"),
		},
		Gateway: GatewayConfig{
			BaseURL:    strings.TrimRight(getEnv("GATEWAY_BASE_URL", DefaultGatewayBaseURL), "/"),
			Timeout:    timeout,
			ChecksFile: os.Getenv("GATEWAY_CHECKS_FILE"),
		},
	}
	return cfg, nil
}

// Validate rejects settings the renderer cannot work with. It runs after CLI flags are applied.
func (c QRConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("QR base URL is required")
	}
	if len(c.Warehouses) == 0 {
		return fmt.Errorf("at least one warehouse is required")
	}
	if c.ModuleSize < 1 {
		return fmt.Errorf("module size must be positive, got %d", c.ModuleSize)
	}
	if c.QuietZone < 0 {
		return fmt.Errorf("quiet zone must not be negative, got %d", c.QuietZone)
	}
	if c.MinVersion < 0 || c.MinVersion > 40 {
		return fmt.Errorf("QR version must be between 0 (auto) and 40, got %d", c.MinVersion)
	}
	return nil
}

// ParseWarehouses splits a comma separated list, falling back to DefaultWarehouses when empty
func ParseWarehouses(raw string) []models.WarehouseID {
	var ids []models.WarehouseID
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, models.WarehouseID(id))
		}
	}
	if len(ids) == 0 {
		return append([]models.WarehouseID(nil), DefaultWarehouses...)
	}
	return ids
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
