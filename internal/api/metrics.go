package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/mqtt"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string         `json:"timestamp"`
	Version       string         `json:"version"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Runtime       RuntimeMetrics `json:"runtime"`
	WebSocket     WSMetrics      `json:"websocket"`
	MQTT          MQTTMetrics    `json:"mqtt"`
	Devices       DeviceMetrics  `json:"devices"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// MQTTMetrics contains MQTT client statistics.
type MQTTMetrics struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
	mqtt.Stats
}

// DeviceMetrics summarises the running devices.
type DeviceMetrics struct {
	Total    int            `json:"total"`
	Leds     int            `json:"leds"`
	Disposed int            `json:"disposed"`
	ByType   map[string]int `json:"by_type"`
}

// handleMetrics returns system metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Devices: DeviceMetrics{ByType: make(map[string]int)},
	}
	if s.hub != nil {
		metrics.WebSocket.ConnectedClients = s.hub.ClientCount()
	}
	if s.mqtt != nil {
		metrics.MQTT = MQTTMetrics{Enabled: true, Connected: s.mqtt.IsConnected(), Stats: s.mqtt.Stats()}
	}

	for _, d := range s.host.List() {
		metrics.Devices.Total++
		metrics.Devices.Leds += d.State.LedCount
		metrics.Devices.ByType[string(d.State.Info.Type)]++
		if d.State.Disposed {
			metrics.Devices.Disposed++
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}

// LogLevel is the body of the logging level endpoints.
type LogLevel struct {
	Level string `json:"level"`
}

func (s *Server) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, LogLevel{Level: s.logger.Level()})
}

// handleSetLogLevel changes the service log level until restart.
func (s *Server) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	var req LogLevel
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.logger.SetLevel(req.Level); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	s.logger.Info("log level changed", "level", s.logger.Level())
	writeJSON(w, http.StatusOK, LogLevel{Level: s.logger.Level()})
}
