package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for rgbcore.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Layouts   LayoutsConfig   `yaml:"layouts"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Update    UpdateConfig    `yaml:"update"`
	Devices   []DeviceConfig  `yaml:"devices"`
}

// DatabaseConfig contains SQLite settings for the layout catalogue.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LayoutsConfig controls where device layouts are looked up.
type LayoutsConfig struct {
	// Dirs are searched in order for <manufacturer>/<model>.yaml after the
	// catalogue.
	Dirs []string `yaml:"dirs"`

	// ImportDir, when set, is imported into the catalogue at startup.
	ImportDir string `yaml:"import_dir"`

	// ImageLayout selects the per-LED image set applied with each layout.
	ImageLayout string `yaml:"image_layout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains settings of the live LED frame feed.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// UpdateConfig controls the host frame loop.
type UpdateConfig struct {
	// FrameRate is the number of update passes per second.
	FrameRate float64 `yaml:"frame_rate"`

	// FullFlushInterval forces a full flush of every device this often, in
	// seconds. 0 disables it.
	FullFlushInterval int `yaml:"full_flush_interval"`

	// Concurrency bounds how many devices are updated in parallel within a
	// frame. 0 updates every device on its own goroutine.
	Concurrency int `yaml:"concurrency"`
}

// DeviceConfig declares one device built at startup.
//
// Vendor selects the construction path:
//   - "virtual" (default): Zone, Layout, or a layout looked up by
//     manufacturer and model
//   - "openrgb": one device per zone of the OpenRGB controller description
//   - "wooting": a Wooting keyboard of the given model
type DeviceConfig struct {
	Name              string  `yaml:"name"`
	Vendor            string  `yaml:"vendor"`
	Type              string  `yaml:"type"`
	Manufacturer      string  `yaml:"manufacturer"`
	Model             string  `yaml:"model"`
	Lighting          string  `yaml:"lighting"`
	Location          Point   `yaml:"location"`
	Scale             Scale   `yaml:"scale"`
	Rotation          float64 `yaml:"rotation"`
	RequiresFullFlush bool    `yaml:"requires_full_flush"`

	// Layout is a layout file path for virtual devices.
	Layout string `yaml:"layout"`

	Zone    *ZoneConfig    `yaml:"zone"`
	OpenRGB *OpenRGBConfig `yaml:"openrgb"`
	Wooting *WootingConfig `yaml:"wooting"`
}

// Point is a surface position in millimetres.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Scale holds per-axis scale factors. Zero axes default to 1.
type Scale struct {
	Horizontal float64 `yaml:"horizontal"`
	Vertical   float64 `yaml:"vertical"`
}

// ZoneConfig describes a vendor zone.
type ZoneConfig struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	LedCount int      `yaml:"led_count"`
	Names    []string `yaml:"names"`

	// Matrix holds zone-relative element indices per row; -1 marks an
	// empty cell.
	Matrix [][]int `yaml:"matrix"`
}

// OpenRGBConfig describes an OpenRGB controller.
type OpenRGBConfig struct {
	Index int          `yaml:"index"`
	Leds  []string     `yaml:"leds"`
	Zones []ZoneConfig `yaml:"zones"`
}

// WootingConfig selects a Wooting keyboard.
type WootingConfig struct {
	Model string `yaml:"model"`
	Index int    `yaml:"index"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: RGBCORE_SECTION_KEY
// For example: RGBCORE_DATABASE_PATH, RGBCORE_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/rgbcore.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Layouts: LayoutsConfig{
			Dirs: []string{"./layouts"},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "rgbcore",
			},
			QoS:         0,
			TopicPrefix: "rgbcore",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8480,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     500,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Update: UpdateConfig{
			FrameRate:         30,
			FullFlushInterval: 0,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: RGBCORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RGBCORE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("RGBCORE_LAYOUTS_IMPORT_DIR"); v != "" {
		cfg.Layouts.ImportDir = v
	}

	if v := os.Getenv("RGBCORE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("RGBCORE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("RGBCORE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("RGBCORE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("RGBCORE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	if v := os.Getenv("RGBCORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	if v := os.Getenv("RGBCORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.TopicPrefix == "" {
		errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.API.Enabled && (c.WebSocket.PingInterval <= 0 || c.WebSocket.PongTimeout <= 0) {
		errs = append(errs, "websocket.ping_interval and websocket.pong_timeout must be positive")
	}

	if c.InfluxDB.Enabled && (c.InfluxDB.URL == "" || c.InfluxDB.Bucket == "") {
		errs = append(errs, "influxdb.url and influxdb.bucket are required when influxdb is enabled")
	}

	if c.Update.FrameRate <= 0 || c.Update.FrameRate > 1000 {
		errs = append(errs, "update.frame_rate must be in (0, 1000]")
	}
	if c.Update.FullFlushInterval < 0 {
		errs = append(errs, "update.full_flush_interval must not be negative")
	}
	if c.Update.Concurrency < 0 {
		errs = append(errs, "update.concurrency must not be negative")
	}

	names := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		errs = append(errs, d.validate(i)...)
		if d.Name != "" {
			if names[d.Name] {
				errs = append(errs, fmt.Sprintf("devices[%d]: duplicate name %q", i, d.Name))
			}
			names[d.Name] = true
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (d DeviceConfig) validate(i int) []string {
	var errs []string
	prefix := fmt.Sprintf("devices[%d]", i)

	switch strings.ToLower(d.Vendor) {
	case "", "virtual":
		if d.Zone != nil && d.Layout != "" {
			errs = append(errs, prefix+": zone and layout are mutually exclusive")
		}
		if d.Zone == nil && d.Layout == "" && (d.Manufacturer == "" || d.Model == "") {
			errs = append(errs, prefix+": needs a zone, a layout, or manufacturer and model")
		}
	case "openrgb":
		if d.OpenRGB == nil || len(d.OpenRGB.Zones) == 0 {
			errs = append(errs, prefix+": openrgb.zones is required")
		}
	case "wooting":
		if d.Wooting == nil || d.Wooting.Model == "" {
			errs = append(errs, prefix+": wooting.model is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown vendor %q", prefix, d.Vendor))
	}

	if !isFinite(d.Scale.Horizontal) || !isFinite(d.Scale.Vertical) {
		errs = append(errs, prefix+": scale must be finite")
	}
	return errs
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// FrameInterval returns the time between update passes.
func (c *Config) FrameInterval() time.Duration {
	if c.Update.FrameRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.Update.FrameRate)
}

// FullFlushInterval returns the forced full flush period, or 0 when disabled.
func (c *Config) FullFlushInterval() time.Duration {
	return time.Duration(c.Update.FullFlushInterval) * time.Second
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
