package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/host"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/config"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/database"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/logging"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/mqtt"
	"github.com/roxaskeyheart/rgbnet-core/internal/layout"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
	"github.com/roxaskeyheart/rgbnet-core/internal/provider"
	"github.com/roxaskeyheart/rgbnet-core/internal/sink"
	"github.com/roxaskeyheart/rgbnet-core/migrations"
)

type fixture struct {
	srv    *Server
	router http.Handler
	id     uuid.UUID
	rec    *sink.Recorder[int]
}

type failingCheck struct{}

func (failingCheck) HealthCheck(context.Context) error { return errors.New("broker unreachable") }

func testLogger() *logging.Logger {
	return logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
}

// testServer creates a Server over a host with one two-key keyboard and a
// migrated in-memory layout catalogue.
func testServer(t *testing.T) *fixture {
	t.Helper()

	rec := &sink.Recorder[int]{}
	dev, err := device.New(device.Options[int]{
		Info: device.Info{Type: device.TypeKeyboard, Manufacturer: "Acme", Model: "K1"},
		Sink: rec,
	}, func(b *device.Builder[int]) error {
		if _, err := b.AddLed(led.KeyboardEscape, geometry.Rect(0, 0, 10, 10)); err != nil {
			return err
		}
		_, err := b.AddLed(led.KeyboardF1, geometry.Rect(10, 0, 10, 10))
		return err
	})
	if err != nil {
		t.Fatalf("device.New() error: %v", err)
	}

	h := host.New(nil)
	id := uuid.New()
	if err := h.Add(provider.Entry{ID: id, Name: "desk keyboard", Controller: dev}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	t.Cleanup(h.Close)

	db, err := database.Open(database.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("database.Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host:     "127.0.0.1",
			Timeouts: config.APITimeoutConfig{Read: 5, Write: 5, Idle: 5},
		},
		WS:      config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10},
		Logger:  testLogger(),
		Host:    h,
		Layouts: layout.NewCatalog(db.DB),
		Checks:  map[string]HealthChecker{"database": db},
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	srv.hub = NewHub(srv.wsCfg, srv.logger)

	return &fixture{srv: srv, router: srv.buildRouter(), id: id, rec: rec}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) devicePath(suffix string) string {
	return "/api/v1/devices/" + f.id.String() + suffix
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return v
}

// ─── Health & Middleware ───────────────────────────────────────────

func TestHealth(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/v1/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	resp := decode[map[string]any](t, w)
	if resp["status"] != "ok" || resp["version"] != "test" {
		t.Errorf("health = %v", resp)
	}
	if resp["devices"] != float64(1) {
		t.Errorf("devices = %v, want 1", resp["devices"])
	}
}

func TestHealth_Degraded(t *testing.T) {
	f := testServer(t)
	f.srv.checks["mqtt"] = failingCheck{}

	w := f.do(t, http.MethodGet, "/api/v1/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("health status = %d, want 503", w.Code)
	}
	resp := decode[struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}](t, w)
	if resp.Status != "degraded" || resp.Components["mqtt"] != "broker unreachable" || resp.Components["database"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestRequestID(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/v1/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want client-123", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	f := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q, want http://localhost:3000", got)
	}
}

func TestNotFound(t *testing.T) {
	f := testServer(t)
	if w := f.do(t, http.MethodGet, "/api/v1/nonexistent", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── Devices ───────────────────────────────────────────────────────

func TestListAndGetDevice(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/v1/devices", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	list := decode[struct {
		Devices []host.Summary `json:"devices"`
		Count   int            `json:"count"`
	}](t, w)
	if list.Count != 1 || list.Devices[0].ID != f.id || list.Devices[0].Name != "desk keyboard" {
		t.Errorf("list = %+v", list)
	}

	w = f.do(t, http.MethodGet, f.devicePath(""), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := decode[host.Summary](t, w)
	if got.State.LedCount != 2 || got.State.Info.Model != "K1" {
		t.Errorf("get = %+v", got)
	}
}

func TestGetDevice_Errors(t *testing.T) {
	f := testServer(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"invalid id", "/api/v1/devices/not-a-uuid", http.StatusBadRequest},
		{"unknown id", "/api/v1/devices/" + uuid.NewString(), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := f.do(t, http.MethodGet, tt.path, ""); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestPlaceDevice(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPatch, f.devicePath(""),
		`{"location":{"x":100,"y":20},"scale":{"horizontal":2,"vertical":2},"rotation":90}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	got := decode[host.Summary](t, w)
	if got.State.Location != geometry.Pt(100, 20) {
		t.Errorf("location = %v", got.State.Location)
	}
	if got.State.Rotation.Degrees != 90 {
		t.Errorf("rotation = %v", got.State.Rotation)
	}
	if got.State.Scale != geometry.Uniform(2) {
		t.Errorf("scale = %v", got.State.Scale)
	}
}

func TestPlaceDevice_Mirrored(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPatch, f.devicePath(""), `{"scale":{"horizontal":-1,"vertical":1}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	got := decode[host.Summary](t, w)
	if got.State.Scale != (geometry.Scale{Horizontal: -1, Vertical: 1}) {
		t.Errorf("scale = %v, want horizontal mirror", got.State.Scale)
	}
}

func TestPlaceDevice_Validation(t *testing.T) {
	f := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"zero scale", `{"scale":{"horizontal":0,"vertical":1}}`},
		{"infinite scale", `{"scale":{"horizontal":1e400,"vertical":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := f.do(t, http.MethodPatch, f.devicePath(""), tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

// ─── LEDs ──────────────────────────────────────────────────────────

func TestListLeds(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, f.devicePath("/leds"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[struct {
		Leds  []led.View `json:"leds"`
		Count int        `json:"count"`
	}](t, w)
	if resp.Count != 2 || resp.Leds[0].ID != "Keyboard_Escape" || resp.Leds[1].ID != "Keyboard_F1" {
		t.Errorf("leds = %+v", resp)
	}
}

func TestSetAndGetLed(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPut, f.devicePath("/leds/Keyboard_F1"), `{"color":"#ff8000"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set status = %d, body %s", w.Code, w.Body)
	}
	if v := decode[led.View](t, w); v.Color != "#ff8000ff" || !v.Dirty {
		t.Errorf("set view = %+v", v)
	}

	w = f.do(t, http.MethodGet, f.devicePath("/leds/keyboard_f1"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	if v := decode[led.View](t, w); v.Color != "#ff8000ff" {
		t.Errorf("get color = %s", v.Color)
	}
}

func TestSetLed_Errors(t *testing.T) {
	f := testServer(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown led name", "/leds/Keyboard_Bogus", `{"color":"#ffffff"}`, http.StatusBadRequest},
		{"led not on device", "/leds/Logo", `{"color":"#ffffff"}`, http.StatusNotFound},
		{"bad color", "/leds/Keyboard_F1", `{"color":"orange"}`, http.StatusBadRequest},
		{"bad json", "/leds/Keyboard_F1", `[`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := f.do(t, http.MethodPut, f.devicePath(tt.path), tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestLedAt(t *testing.T) {
	f := testServer(t)

	tests := []struct {
		name   string
		query  string
		want   int
		wantID string
	}{
		{"first key", "?x=5&y=5", http.StatusOK, "Keyboard_Escape"},
		{"second key", "?x=15&y=1", http.StatusOK, "Keyboard_F1"},
		{"outside", "?x=50&y=50", http.StatusNotFound, ""},
		{"missing y", "?x=5", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, f.devicePath("/leds/at"+tt.query), "")
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.wantID != "" {
				if v := decode[led.View](t, w); v.ID != tt.wantID {
					t.Errorf("id = %s, want %s", v.ID, tt.wantID)
				}
			}
		})
	}
}

func TestLedsOverlapping(t *testing.T) {
	f := testServer(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"covers both", "?x=0&y=0&width=20&height=10&min_overlap=0.1", 2},
		{"inside one", "?x=12&y=2&width=4&height=4", 1},
		{"touching edge", "?x=20&y=0&width=5&height=5&min_overlap=0", 1},
		{"far away", "?x=100&y=100&width=5&height=5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, f.devicePath("/leds/overlapping"+tt.query), "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body)
			}
			if got := decode[struct {
				Count int `json:"count"`
			}](t, w).Count; got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}

	if w := f.do(t, http.MethodGet, f.devicePath("/leds/overlapping?x=0&y=0&width=1&height=1&min_overlap=2"), ""); w.Code != http.StatusBadRequest {
		t.Errorf("min_overlap=2 status = %d, want 400", w.Code)
	}
}

// ─── Updates ───────────────────────────────────────────────────────

func TestFillAndUpdateDevice(t *testing.T) {
	f := testServer(t)

	if w := f.do(t, http.MethodPost, f.devicePath("/fill"), `{"color":"#00ff00"}`); w.Code != http.StatusNoContent {
		t.Fatalf("fill status = %d", w.Code)
	}
	w := f.do(t, http.MethodPost, f.devicePath("/update"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}
	if sent := decode[map[string]any](t, w)["sent"]; sent != float64(2) {
		t.Errorf("sent = %v, want 2", sent)
	}

	// Nothing is dirty any more; a flush resends everything.
	w = f.do(t, http.MethodPost, f.devicePath("/update?flush=true"), "")
	if sent := decode[map[string]any](t, w)["sent"]; sent != float64(2) {
		t.Errorf("flush sent = %v, want 2", sent)
	}
	last, _ := f.rec.Last()
	if !last.Full {
		t.Error("flushed batch should be full")
	}

	if w := f.do(t, http.MethodPost, f.devicePath("/update?flush=maybe"), ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad flush status = %d, want 400", w.Code)
	}
}

func TestUpdateDevice_SinkFailure(t *testing.T) {
	f := testServer(t)
	f.rec.FailWith(errors.New("usb gone"))

	if w := f.do(t, http.MethodPost, f.devicePath("/update?flush=true"), ""); w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/v1/update", ""); w.Code != http.StatusBadGateway {
		t.Errorf("update all status = %d, want 502", w.Code)
	}
}

func TestUpdateAll(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodPost, "/api/v1/update?flush=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if sent := decode[map[string]any](t, w)["sent"]; sent != float64(2) {
		t.Errorf("sent = %v, want 2", sent)
	}
}

// ─── Layouts ───────────────────────────────────────────────────────

const layoutDoc = `
name: Desk Keyboard
width: 100
height: 40
leds:
  - id: Keyboard_Escape
    x: 0
    y: 0
  - id: Keyboard_F1
`

func TestLayoutsLifecycle(t *testing.T) {
	f := testServer(t)

	if w := f.do(t, http.MethodPut, "/api/v1/layouts/Acme/K1", layoutDoc); w.Code != http.StatusNoContent {
		t.Fatalf("put status = %d, body %s", w.Code, w.Body)
	}

	w := f.do(t, http.MethodGet, "/api/v1/layouts", "")
	resp := decode[struct {
		Layouts []layout.Entry `json:"layouts"`
		Count   int            `json:"count"`
	}](t, w)
	if resp.Count != 1 || resp.Layouts[0].Name != "Desk Keyboard" || resp.Layouts[0].LedCount != 2 {
		t.Errorf("layouts = %+v", resp)
	}

	if w := f.do(t, http.MethodDelete, "/api/v1/layouts/Acme/K1", ""); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/api/v1/layouts/Acme/K1", ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestPutLayout_Invalid(t *testing.T) {
	f := testServer(t)

	if w := f.do(t, http.MethodPut, "/api/v1/layouts/Acme/K1", "width: wide\n"); w.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d, want 400", w.Code)
	}
	if w := f.do(t, http.MethodPut, "/api/v1/layouts/Acme/K1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("empty status = %d, want 400", w.Code)
	}
}

func TestLayouts_Unconfigured(t *testing.T) {
	f := testServer(t)
	f.srv.layouts = nil

	if w := f.do(t, http.MethodGet, "/api/v1/layouts", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

// ─── Metrics ───────────────────────────────────────────────────────

func TestMetrics(t *testing.T) {
	f := testServer(t)

	w := f.do(t, http.MethodGet, "/api/v1/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	m := decode[SystemMetrics](t, w)
	if m.Devices.Total != 1 || m.Devices.Leds != 2 || m.Devices.ByType["keyboard"] != 1 {
		t.Errorf("devices = %+v", m.Devices)
	}
	if m.MQTT.Enabled {
		t.Error("mqtt should be reported as disabled")
	}
}

func TestLogLevel(t *testing.T) {
	f := testServer(t)

	if got := decode[LogLevel](t, f.do(t, http.MethodGet, "/api/v1/logging/level", "")); got.Level != "error" {
		t.Errorf("initial level = %q, want error", got.Level)
	}

	tests := []struct {
		body       string
		wantStatus int
		wantLevel  string
	}{
		{`{"level":"debug"}`, http.StatusOK, "debug"},
		{`{"level":"loud"}`, http.StatusBadRequest, "debug"},
		{`not json`, http.StatusBadRequest, "debug"},
		{`{"level":"WARN"}`, http.StatusOK, "warn"},
	}
	for _, tt := range tests {
		w := f.do(t, http.MethodPut, "/api/v1/logging/level", tt.body)
		if w.Code != tt.wantStatus {
			t.Errorf("PUT %s status = %d, want %d", tt.body, w.Code, tt.wantStatus)
		}
		if got := f.srv.logger.Level(); got != tt.wantLevel {
			t.Errorf("after PUT %s level = %q, want %q", tt.body, got, tt.wantLevel)
		}
	}
}

type fakeBroker struct{ stats mqtt.Stats }

func (fakeBroker) IsConnected() bool   { return true }
func (b fakeBroker) Stats() mqtt.Stats { return b.stats }

func TestMetrics_MQTT(t *testing.T) {
	f := testServer(t)
	f.srv.mqtt = fakeBroker{stats: mqtt.Stats{Published: 42, PublishFailed: 1, Received: 3}}

	m := decode[SystemMetrics](t, f.do(t, http.MethodGet, "/api/v1/metrics", ""))
	if !m.MQTT.Enabled || !m.MQTT.Connected {
		t.Errorf("mqtt = %+v, want enabled and connected", m.MQTT)
	}
	if m.MQTT.Published != 42 || m.MQTT.PublishFailed != 1 || m.MQTT.Received != 3 {
		t.Errorf("mqtt stats = %+v", m.MQTT.Stats)
	}
}

// ─── WebSocket Hub ─────────────────────────────────────────────────

func newTestClient(hub *Hub, channels ...string) *WSClient {
	subs := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		subs[ch] = struct{}{}
	}
	c := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: subs,
	}
	hub.Register(c)
	return c
}

func TestHub_PublishRelaysFrames(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, testLogger())
	topic := sink.LedTopic("rgbcore", "abc")

	follower := newTestClient(hub, topic)
	everything := newTestClient(hub, WSAllChannels)
	other := newTestClient(hub, sink.LedTopic("rgbcore", "xyz"))

	if err := hub.Publish(topic, []byte(`{"device":"abc","full":true}`), 0, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	for name, c := range map[string]*WSClient{"follower": follower, "wildcard": everything} {
		select {
		case raw := <-c.send:
			var msg struct {
				Type      string `json:"type"`
				EventType string `json:"event_type"`
				Payload   struct {
					Device string `json:"device"`
				} `json:"payload"`
			}
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("%s: unmarshal: %v", name, err)
			}
			if msg.Type != WSTypeEvent || msg.EventType != topic || msg.Payload.Device != "abc" {
				t.Errorf("%s: message = %+v", name, msg)
			}
		case <-time.After(time.Second):
			t.Errorf("%s: timed out waiting for frame", name)
		}
	}

	select {
	case <-other.send:
		t.Error("client of another device should not receive the frame")
	default:
	}
}

func TestChannelMatches(t *testing.T) {
	leds := sink.LedTopic("rgbcore", "abc")
	tests := []struct {
		filter string
		want   bool
	}{
		{leds, true},
		{WSAllChannels, true},
		{"#", true},
		{"rgbcore/#", true},
		{"rgbcore/device/+/leds", true},
		{"rgbcore/device/+", false},
		{"rgbcore/device/+/leds/extra", false},
		{"other/#", false},
		{sink.LedTopic("rgbcore", "xyz"), false},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			if got := channelMatches(tt.filter, leds); got != tt.want {
				t.Errorf("channelMatches(%q, %q) = %v, want %v", tt.filter, leds, got, tt.want)
			}
		})
	}
}

func TestHub_CountsDroppedFrames(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, testLogger())
	c := &WSClient{hub: hub, send: make(chan []byte, 1), subscriptions: map[string]struct{}{"#": {}}}
	hub.Register(c)

	for range 3 {
		_ = hub.Publish("rgbcore/device/abc/leds", []byte(`{}`), 0, false)
	}
	if got := c.dropped.Load(); got != 2 {
		t.Errorf("dropped = %d, want 2", got)
	}
}

func TestHub_ClientCount(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, testLogger())
	if hub.ClientCount() != 0 {
		t.Errorf("initial client count = %d, want 0", hub.ClientCount())
	}
	c := newTestClient(hub)
	if hub.ClientCount() != 1 {
		t.Errorf("after register count = %d, want 1", hub.ClientCount())
	}
	hub.Unregister(c)
	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("after unregister count = %d, want 0", hub.ClientCount())
	}
}

func TestWebSocket_SubscribeAndReceive(t *testing.T) {
	f := testServer(t)
	ts := httptest.NewServer(f.router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	topic := sink.LedTopic("rgbcore", f.id.String())
	sub, _ := json.Marshal(WSMessage{Type: WSTypeSubscribe, ID: "1", Payload: WSSubscribePayload{Channels: []string{topic}}})
	if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck // test deadline
	var ack WSMessage
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("reading ack: %v", err)
	}
	if ack.Type != WSTypeResponse || ack.ID != "1" {
		t.Fatalf("ack = %+v", ack)
	}

	frame := []byte(`{"device":"` + f.id.String() + `"}`)
	if err := f.srv.hub.Publish(topic, frame, 0, false); err != nil {
		t.Fatal(err)
	}
	var event WSMessage
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if event.Type != WSTypeEvent || event.EventType != topic {
		t.Errorf("event = %+v", event)
	}
	payload, _ := json.Marshal(event.Payload)
	if !bytes.Contains(payload, []byte(f.id.String())) {
		t.Errorf("payload = %s", payload)
	}
}
