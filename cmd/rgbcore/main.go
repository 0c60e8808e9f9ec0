// rgbcore - spatial RGB device host
//
// rgbcore builds the RGB devices declared in its configuration, places
// their LEDs on a shared surface using device layouts, and pushes colour
// updates to each device's sink at a fixed frame rate. Frames go out over
// MQTT and the API's WebSocket feed; colours come in over MQTT commands
// and the REST API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roxaskeyheart/rgbnet-core/internal/api"
	"github.com/roxaskeyheart/rgbnet-core/internal/host"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/config"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/database"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/influxdb"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/logging"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/mqtt"
	"github.com/roxaskeyheart/rgbnet-core/internal/layout"
	"github.com/roxaskeyheart/rgbnet-core/internal/provider"
	"github.com/roxaskeyheart/rgbnet-core/internal/sink"
	"github.com/roxaskeyheart/rgbnet-core/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		err = runMigrate(ctx, os.Args[2:], os.Stdout)
	} else {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // startup sequence: each optional component is wired in order
	log := logging.Default()
	log.Info("starting rgbcore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"devices", len(cfg.Devices),
		"frame_rate", cfg.Update.FrameRate,
	)

	// Layout catalogue
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	applied, err := db.Migrate(ctx, migrations.FS)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path, "migrations_applied", applied)

	catalog := layout.NewCatalog(db.DB)
	if cfg.Layouts.ImportDir != "" {
		n, importErr := catalog.ImportDir(ctx, cfg.Layouts.ImportDir)
		if importErr != nil {
			log.Warn("some layouts could not be imported", "dir", cfg.Layouts.ImportDir, "error", importErr)
		}
		log.Info("layouts imported", "dir", cfg.Layouts.ImportDir, "count", n)
	}
	layouts := layoutSources(catalog, cfg.Layouts.Dirs)

	// MQTT (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		mqttClient.SetLogger(log.Component("mqtt"))
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Live frame feed
	var hub *api.Hub
	if cfg.API.Enabled {
		hub = api.NewHub(cfg.WebSocket, log.Component("websocket"))
		go hub.Run(ctx)
	}

	// Devices
	prov := provider.NewConfig(provider.ConfigOptions{
		Devices:     cfg.Devices,
		Layouts:     layouts,
		ImageLayout: cfg.Layouts.ImageLayout,
		Outputs:     buildOutputs(cfg, mqttClient, influxClient, hub),
		Logger:      log.Component("provider"),
	})
	if initErr := prov.Initialize(ctx); initErr != nil {
		log.Warn("some devices could not be built", "error", initErr)
	}

	devices := host.New(log.Component("host"))
	defer devices.Close()
	devices.SetConcurrency(cfg.Update.Concurrency)
	if influxClient != nil {
		devices.SetFrameMetrics(influxClient)
	}
	if addErr := devices.Add(prov.Devices()...); addErr != nil {
		return fmt.Errorf("registering devices: %w", addErr)
	}
	log.Info("devices ready", "count", devices.Len())

	if mqttClient != nil {
		topics := mqttClient.Topics()
		qos := byte(cfg.MQTT.QoS) //nolint:gosec // validated to 0..2
		if subErr := mqttClient.Subscribe(topics.AllDeviceSets(), qos, devices.CommandHandler(topics)); subErr != nil {
			return fmt.Errorf("subscribing to device commands: %w", subErr)
		}
		log.Info("listening for device commands", "topic", topics.AllDeviceSets())
	}

	// HTTP API (optional)
	checks := map[string]api.HealthChecker{"database": db}
	if mqttClient != nil {
		checks["mqtt"] = mqttClient
		checks["mqtt_commands"] = subscriptionCheck(mqttClient, mqttClient.Topics().AllDeviceSets())
	}
	if influxClient != nil {
		checks["influxdb"] = influxClient
	}
	if cfg.API.Enabled {
		deps := api.Deps{
			Config:  cfg.API,
			WS:      cfg.WebSocket,
			Logger:  log.Component("api"),
			Host:    devices,
			Layouts: catalog,
			Checks:  checks,
			Hub:     hub,
			Version: version,
		}
		if mqttClient != nil {
			deps.MQTT = mqttClient
		}
		server, apiErr := api.New(deps)
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := server.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API disabled")
	}

	if err := healthCheck(ctx, checks); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, entering update loop")

	if err := devices.Run(ctx, cfg.FrameInterval(), fullFlushEvery(cfg)); err != nil {
		return fmt.Errorf("update loop: %w", err)
	}

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses RGBCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("RGBCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// layoutSources searches the catalogue first, then each directory in order.
func layoutSources(catalog *layout.Catalog, dirs []string) layout.Chain {
	chain := layout.Chain{catalog}
	for _, dir := range dirs {
		chain = append(chain, layout.NewDirSource(dir))
	}
	return chain
}

// buildOutputs wires device sinks to the configured frame destinations.
// Nil clients are left out so that no interface holds a nil pointer.
func buildOutputs(cfg *config.Config, mqttClient *mqtt.Client, influxClient *influxdb.Client, hub *api.Hub) provider.Outputs {
	var pubs sink.Fanout
	if mqttClient != nil {
		pubs = append(pubs, mqttClient)
	}
	if hub != nil {
		pubs = append(pubs, hub)
	}

	out := provider.Outputs{
		TopicPrefix: cfg.MQTT.TopicPrefix,
		QoS:         byte(cfg.MQTT.QoS), //nolint:gosec // validated to 0..2
	}
	switch len(pubs) {
	case 0:
	case 1:
		out.Publisher = pubs[0]
	default:
		out.Publisher = pubs
	}
	if influxClient != nil {
		out.Metrics = influxClient
	}
	return out
}

// fullFlushEvery converts the full flush period into a frame count.
// A configured period shorter than one frame flushes every frame.
func fullFlushEvery(cfg *config.Config) int {
	period, frame := cfg.FullFlushInterval(), cfg.FrameInterval()
	if period <= 0 || frame <= 0 {
		return 0
	}
	return max(1, int(period/frame))
}

// healthFunc adapts a function to api.HealthChecker.
type healthFunc func(context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// subscriptionCheck fails while topic is not among the client's tracked
// subscriptions, i.e. device commands would not be received after a
// reconnect.
func subscriptionCheck(c *mqtt.Client, topic string) api.HealthChecker {
	return healthFunc(func(context.Context) error {
		if !c.HasSubscription(topic) {
			return fmt.Errorf("not subscribed to %s", topic)
		}
		return nil
	})
}

// healthCheck verifies every component, failing on the first error.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	for name, c := range checks {
		if err := c.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
