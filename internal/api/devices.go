package api

import (
	"encoding/json"
	"errors"
	"image/color"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/host"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// PlacementRequest moves a device on the surface. Omitted fields are left
// unchanged.
type PlacementRequest struct {
	Location *geometry.Point `json:"location,omitempty"`
	Scale    *geometry.Scale `json:"scale,omitempty"`
	Rotation *float64        `json:"rotation,omitempty"`
}

// ColorRequest carries one colour, "#rrggbb" or "#rrggbbaa".
type ColorRequest struct {
	Color string `json:"color"`
}

// handleListDevices returns all devices in registration order.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.host.List()
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	summary, err := s.host.Get(id)
	if err != nil {
		s.writeHostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handlePlaceDevice changes a device's location, scale or rotation.
func (s *Server) handlePlaceDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}

	var req PlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, msg)
		return
	}

	err := s.host.Do(id, func(c device.Controller) error {
		if req.Location != nil {
			c.SetLocation(*req.Location)
		}
		if req.Scale != nil {
			c.SetScale(*req.Scale)
		}
		if req.Rotation != nil {
			c.SetRotation(geometry.Deg(*req.Rotation))
		}
		return nil
	})
	if err != nil {
		s.writeHostError(w, err)
		return
	}

	summary, err := s.host.Get(id)
	if err != nil {
		s.writeHostError(w, err)
		return
	}
	s.logger.Info("device placed", "device_id", id, "rectangle", summary.State.Rectangle)
	writeJSON(w, http.StatusOK, summary)
}

func (p PlacementRequest) validate() string {
	if p.Location != nil && (!finite(p.Location.X) || !finite(p.Location.Y)) {
		return "location must be finite"
	}
	if p.Scale != nil && (!finite(p.Scale.Horizontal) || !finite(p.Scale.Vertical) ||
		p.Scale.Horizontal == 0 || p.Scale.Vertical == 0) {
		return "scale factors must be finite and non-zero"
	}
	if p.Rotation != nil && !finite(*p.Rotation) {
		return "rotation must be finite"
	}
	return ""
}

// handleUpdateDevice pushes a device's staged colours. ?flush=true resends
// every LED.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	flush, ok := flushParam(w, r)
	if !ok {
		return
	}

	var sent int
	err := s.host.Do(id, func(c device.Controller) error {
		var err error
		sent, err = c.Update(r.Context(), flush)
		return err
	})
	if err != nil {
		s.writeHostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sent": sent, "flush": flush})
}

// handleUpdateAll updates every device.
func (s *Server) handleUpdateAll(w http.ResponseWriter, r *http.Request) {
	flush, ok := flushParam(w, r)
	if !ok {
		return
	}
	sent, err := s.host.UpdateAll(r.Context(), flush)
	if err != nil {
		s.logger.Warn("update failed", "error", err)
		writeError(w, http.StatusBadGateway, ErrCodeUpdateFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sent": sent, "flush": flush})
}

// handleFillDevice stages one colour on every LED of a device.
func (s *Server) handleFillDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	c, ok := decodeColor(w, r)
	if !ok {
		return
	}
	if err := s.host.Do(id, func(ctrl device.Controller) error {
		ctrl.Fill(c)
		return nil
	}); err != nil {
		s.writeHostError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListLeds returns every LED of a device.
func (s *Server) handleListLeds(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	var views []led.View
	if err := s.host.Do(id, func(c device.Controller) error {
		views = c.Views()
		return nil
	}); err != nil {
		s.writeHostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leds": views, "count": len(views)})
}

// handleGetLed returns one LED by name, for example Keyboard_Escape.
func (s *Server) handleGetLed(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	ledID, ok := ledParam(w, r)
	if !ok {
		return
	}

	var (
		view  led.View
		found bool
	)
	if err := s.host.Do(id, func(c device.Controller) error {
		view, found = c.View(ledID)
		return nil
	}); err != nil {
		s.writeHostError(w, err)
		return
	}
	if !found {
		writeNotFound(w, "led not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSetLed stages the colour of one LED.
func (s *Server) handleSetLed(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	ledID, ok := ledParam(w, r)
	if !ok {
		return
	}
	c, ok := decodeColor(w, r)
	if !ok {
		return
	}

	var view led.View
	err := s.host.Do(id, func(ctrl device.Controller) error {
		if err := ctrl.SetColor(ledID, c); err != nil {
			return err
		}
		view, _ = ctrl.View(ledID)
		return nil
	})
	if err != nil {
		s.writeHostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleLedAt returns the LED containing the device-local point ?x=&y=.
func (s *Server) handleLedAt(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	q := queryFloats(r, "x", "y")
	if q.err != "" {
		writeBadRequest(w, q.err)
		return
	}

	var (
		view  led.View
		found bool
	)
	if err := s.host.Do(id, func(c device.Controller) error {
		view, found = c.ViewAt(geometry.Pt(q.v["x"], q.v["y"]))
		return nil
	}); err != nil {
		s.writeHostError(w, err)
		return
	}
	if !found {
		writeNotFound(w, "no led at point")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleLedsOverlapping returns the LEDs overlapping the device-local
// rectangle ?x=&y=&width=&height=. ?min_overlap= (0..1, default 0.5) is the
// fraction of the rectangle that must fall on a LED; 0 matches any contact.
func (s *Server) handleLedsOverlapping(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	q := queryFloats(r, "x", "y", "width", "height")
	if q.err != "" {
		writeBadRequest(w, q.err)
		return
	}
	minOverlap := 0.5
	if raw := r.URL.Query().Get("min_overlap"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			writeBadRequest(w, "min_overlap must be between 0 and 1")
			return
		}
		minOverlap = v
	}

	probe := geometry.Rect(q.v["x"], q.v["y"], q.v["width"], q.v["height"])
	var views []led.View
	if err := s.host.Do(id, func(c device.Controller) error {
		views = c.ViewsOverlapping(probe, minOverlap)
		return nil
	}); err != nil {
		s.writeHostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leds": views, "count": len(views)})
}

// writeHostError maps host and device errors to responses.
func (s *Server) writeHostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, host.ErrDeviceNotFound):
		writeNotFound(w, "device not found")
	case errors.Is(err, device.ErrLedNotFound):
		writeNotFound(w, "led not found")
	case errors.Is(err, device.ErrDisposed), errors.Is(err, host.ErrClosed):
		writeError(w, http.StatusConflict, ErrCodeConflict, "device disposed")
	case errors.Is(err, device.ErrSubmit), errors.Is(err, device.ErrPreUpdate):
		s.logger.Warn("device update failed", "error", err)
		writeError(w, http.StatusBadGateway, ErrCodeUpdateFailed, err.Error())
	default:
		s.logger.Error("device operation failed", "error", err)
		writeInternalError(w, "device operation failed")
	}
}

func deviceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return uuid.Nil, false
	}
	return id, true
}

func ledParam(w http.ResponseWriter, r *http.Request) (led.ID, bool) {
	id, err := led.Parse(chi.URLParam(r, "led"))
	if err != nil {
		writeBadRequest(w, "invalid led id")
		return led.Invalid, false
	}
	return id, true
}

func flushParam(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("flush")
	if raw == "" {
		return false, true
	}
	flush, err := strconv.ParseBool(raw)
	if err != nil {
		writeBadRequest(w, "flush must be a boolean")
		return false, false
	}
	return flush, true
}

func decodeColor(w http.ResponseWriter, r *http.Request) (c color.NRGBA, ok bool) {
	var req ColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return c, false
	}
	parsed, err := led.ParseColor(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return c, false
	}
	return parsed, true
}

type floatQuery struct {
	v   map[string]float64
	err string
}

func queryFloats(r *http.Request, names ...string) floatQuery {
	q := floatQuery{v: make(map[string]float64, len(names))}
	for _, name := range names {
		v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
		if err != nil || !finite(v) {
			q.err = name + " must be a number"
			return q
		}
		q.v[name] = v
	}
	return q
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
