package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/config"
	"github.com/roxaskeyheart/rgbnet-core/internal/layout"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
	"github.com/roxaskeyheart/rgbnet-core/internal/vendors/openrgb"
	"github.com/roxaskeyheart/rgbnet-core/internal/vendors/wooting"
)

// ConfigOptions configure a Config provider.
type ConfigOptions struct {
	Devices []config.DeviceConfig

	// Layouts resolves layouts of virtual devices declared by manufacturer
	// and model only.
	Layouts layout.Source

	// ImageLayout selects the per-LED image set of applied layouts.
	ImageLayout string

	Outputs Outputs
	Logger  Logger
}

// Config builds the devices declared in configuration.
type Config struct {
	opts ConfigOptions

	mu          sync.Mutex
	initialized bool
	entries     []Entry
}

var _ Provider = (*Config)(nil)

// NewConfig creates a provider for the declared devices.
func NewConfig(opts ConfigOptions) *Config {
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	return &Config{opts: opts}
}

// Name implements Provider.
func (p *Config) Name() string { return "config" }

// Initialized implements Provider.
func (p *Config) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Devices implements Provider.
func (p *Config) Devices() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Entry(nil), p.entries...)
}

// Initialize builds every declared device. A declaration that fails is
// logged and skipped; all failures are returned joined.
func (p *Config) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return ErrAlreadyInitialized
	}
	p.initialized = true

	var errs []error
	for i, decl := range p.opts.Devices {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		entries, err := p.build(ctx, decl)
		if err != nil {
			name := decl.Name
			if name == "" {
				name = fmt.Sprintf("devices[%d]", i)
			}
			p.opts.Logger.Warn("skipping device", "device", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		for _, e := range entries {
			p.opts.Logger.Info("device built",
				"device", e.Name,
				"id", e.ID,
				"leds", e.Controller.State().LedCount,
			)
		}
		p.entries = append(p.entries, entries...)
	}
	return errors.Join(errs...)
}

// Close implements Provider.
func (p *Config) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		e.Controller.Dispose()
	}
	p.entries = nil
	return nil
}

func (p *Config) build(ctx context.Context, decl config.DeviceConfig) ([]Entry, error) {
	typ, err := device.ParseType(decl.Type)
	if err != nil {
		return nil, err
	}
	lighting, err := device.ParseLighting(decl.Lighting)
	if err != nil {
		return nil, err
	}
	info := device.Info{
		Type:         typ,
		Manufacturer: decl.Manufacturer,
		Model:        decl.Model,
		Lighting:     lighting,
	}
	if info.Model == "" {
		info.Model = decl.Name
	}

	var entries []Entry
	switch strings.ToLower(decl.Vendor) {
	case "", "virtual":
		e, err := p.buildVirtual(ctx, decl, info)
		if err != nil {
			return nil, err
		}
		entries = []Entry{e}
	case "openrgb":
		entries, err = p.buildOpenRGB(decl, info)
	case "wooting":
		var e Entry
		e, err = p.buildWooting(decl)
		entries = []Entry{e}
	default:
		err = fmt.Errorf("%w: unknown vendor %q", ErrInvalidDevice, decl.Vendor)
	}
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		place(e.Controller, decl)
	}
	return entries, nil
}

func (p *Config) buildVirtual(ctx context.Context, decl config.DeviceConfig, info device.Info) (Entry, error) {
	id := uuid.New()
	dev, err := device.New(device.Options[int]{
		Info:              info,
		Sink:              sinkFor[int](p.opts.Outputs, id),
		RequiresFullFlush: decl.RequiresFullFlush,
		Logger:            p.opts.Logger,
	}, func(b *device.Builder[int]) error {
		switch {
		case decl.Zone != nil:
			zone, names, err := convertZone(*decl.Zone)
			if err != nil {
				return err
			}
			_, err = b.ApplyZone(zone, device.ZonePlacement[int]{
				Names:    names,
				Lookup:   parsedNames(names),
				Fallback: device.InitialLedID(info.Type),
				Data:     func(i int) int { return i },
			})
			return err
		case decl.Layout != "":
			_, err := b.ApplyLayoutFile(decl.Layout, p.opts.ImageLayout, true)
			return err
		case p.opts.Layouts != nil:
			_, err := b.ApplyLayoutFrom(ctx, p.opts.Layouts, p.opts.ImageLayout, true)
			return err
		default:
			return fmt.Errorf("%w: no zone, layout or layout source", ErrInvalidDevice)
		}
	})
	if err != nil {
		return Entry{}, err
	}
	return Entry{ID: id, Name: nameOr(decl.Name, dev.Info().Name()), Controller: dev}, nil
}

func (p *Config) buildOpenRGB(decl config.DeviceConfig, info device.Info) ([]Entry, error) {
	if decl.OpenRGB == nil {
		return nil, fmt.Errorf("%w: missing openrgb section", ErrInvalidDevice)
	}
	c := openrgb.Controller{
		Index:  decl.OpenRGB.Index,
		Name:   info.Model,
		Vendor: info.Manufacturer,
		Type:   info.Type,
	}
	for _, name := range decl.OpenRGB.Leds {
		c.Leds = append(c.Leds, openrgb.Led{Name: name})
	}
	for _, zc := range decl.OpenRGB.Zones {
		zone, _, err := convertZone(zc)
		if err != nil {
			return nil, err
		}
		typ := openrgb.ZoneLinear
		if zone.Kind == device.ZoneMatrix {
			typ = openrgb.ZoneMatrix
		}
		c.Zones = append(c.Zones, openrgb.Zone{
			Name:      zone.Name,
			Type:      typ,
			LedsCount: zone.LedCount,
			Matrix:    zone.Matrix,
		})
	}

	var ids []uuid.UUID
	devs, err := openrgb.NewZoneDevices(c, openrgb.Options{
		Sink: func(device.Info) device.UpdateSink[int] {
			id := uuid.New()
			ids = append(ids, id)
			return sinkFor[int](p.opts.Outputs, id)
		},
		Logger: p.opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(devs))
	for i, d := range devs {
		entries[i] = Entry{ID: ids[i], Name: nameOr(decl.Name, c.Name) + " " + c.Zones[zoneIndex(c, i)].Name, Controller: d}
	}
	return entries, nil
}

func (p *Config) buildWooting(decl config.DeviceConfig) (Entry, error) {
	if decl.Wooting == nil {
		return Entry{}, fmt.Errorf("%w: missing wooting section", ErrInvalidDevice)
	}
	model, err := wooting.ParseModel(decl.Wooting.Model)
	if err != nil {
		return Entry{}, err
	}
	id := uuid.New()
	kb, err := wooting.NewKeyboard(wooting.Options{
		Index:  decl.Wooting.Index,
		Model:  model,
		Sink:   sinkFor[wooting.Key](p.opts.Outputs, id),
		Logger: p.opts.Logger,
	})
	if err != nil {
		return Entry{}, err
	}
	return Entry{ID: id, Name: nameOr(decl.Name, kb.Info().Name()), Controller: kb}, nil
}

// zoneIndex maps the i-th built zone device back to its zone; empty zones
// produce no device.
func zoneIndex(c openrgb.Controller, i int) int {
	for zi, z := range c.Zones {
		if z.LedsCount <= 0 {
			continue
		}
		if i == 0 {
			return zi
		}
		i--
	}
	return 0
}

func place(c device.Controller, decl config.DeviceConfig) {
	c.SetLocation(geometry.Pt(decl.Location.X, decl.Location.Y))
	scale := geometry.Scale{Horizontal: decl.Scale.Horizontal, Vertical: decl.Scale.Vertical}
	if scale.Horizontal == 0 {
		scale.Horizontal = 1
	}
	if scale.Vertical == 0 {
		scale.Vertical = 1
	}
	c.SetScale(scale)
	c.SetRotation(geometry.Deg(decl.Rotation))
}

func convertZone(zc config.ZoneConfig) (device.Zone, []string, error) {
	kind, err := device.ParseZoneKind(zc.Kind)
	if err != nil {
		return device.Zone{}, nil, err
	}
	z := device.Zone{Name: zc.Name, Kind: kind, LedCount: zc.LedCount}
	for _, row := range zc.Matrix {
		cells := make([]uint32, len(row))
		for c, v := range row {
			if v < 0 {
				cells[c] = device.NoElement
			} else {
				cells[c] = uint32(v)
			}
		}
		z.Matrix = append(z.Matrix, cells)
	}
	return z, zc.Names, nil
}

// parsedNames resolves element names written as LED identifiers, such as
// "Keyboard_Escape" or "LedStripe3".
func parsedNames(names []string) map[string]led.ID {
	m := make(map[string]led.ID, len(names))
	for _, n := range names {
		if id, err := led.Parse(n); err == nil {
			m[n] = id
		}
	}
	return m
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
