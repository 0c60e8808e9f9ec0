package wooting

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// KeySize is the edge length of one matrix cell in millimetres.
const KeySize = 19

// ErrUnknownModel is returned for models without a key matrix.
var ErrUnknownModel = errors.New("wooting: unknown model")

// Key is a position in the keyboard's RGB matrix.
type Key struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Model identifies a keyboard layout.
type Model string

// Supported models.
const (
	ModelOne Model = "one"
	ModelTwo Model = "two"
)

// ParseModel parses a model name, case-insensitively.
func ParseModel(s string) (Model, error) {
	m := Model(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := matrices[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
	}
	return m, nil
}

// SDK is the subset of the Wooting RGB SDK the device needs.
type SDK interface {
	SelectDevice(index int) error
	SetKey(row, col int, c color.NRGBA) error
	UpdateKeyboard() error
	Reset() error
}

// Options configure NewKeyboard.
type Options struct {
	// Index selects the keyboard when several are connected.
	Index int
	Model Model

	// SDK drives the hardware. Ignored when Sink is set.
	SDK SDK

	// Sink, when set, receives updates instead of the SDK.
	Sink device.UpdateSink[Key]

	Logger device.Logger
}

// NewKeyboard builds a keyboard device with one LED per matrix key.
func NewKeyboard(opts Options) (*device.Device[Key], error) {
	matrix, ok := matrices[opts.Model]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, opts.Model)
	}

	s := opts.Sink
	if s == nil {
		if opts.SDK == nil {
			return nil, device.ErrSinkRequired
		}
		s = &sdkSink{sdk: opts.SDK, index: opts.Index}
	}

	var hooks device.Hooks[Key]
	if opts.SDK != nil {
		sdk, index := opts.SDK, opts.Index
		hooks.Teardown = func() error {
			if err := sdk.SelectDevice(index); err != nil {
				return err
			}
			return sdk.Reset()
		}
	}

	return device.New(device.Options[Key]{
		Info: device.Info{
			Type:         device.TypeKeyboard,
			Manufacturer: "Wooting",
			Model:        modelNames[opts.Model],
			Lighting:     device.LightingKey,
		},
		Sink:              s,
		RequiresFullFlush: true,
		Hooks:             hooks,
		Logger:            opts.Logger,
	}, func(b *device.Builder[Key]) error {
		rows, cols := len(matrix), 0
		for _, r := range matrix {
			cols = max(cols, len(r))
		}
		b.SetLogicalSize(geometry.Sz(float64(cols*KeySize), float64(rows*KeySize)))

		for row, ids := range matrix {
			for col, id := range ids {
				if id == led.Invalid {
					continue
				}
				rect := geometry.Rect(float64(col*KeySize), float64(row*KeySize), KeySize, KeySize)
				if _, err := b.AddLedWithData(id, rect, Key{Row: row, Col: col}); err != nil {
					return fmt.Errorf("key %d,%d: %w", row, col, err)
				}
			}
		}
		return nil
	})
}

// sdkSink writes a batch key by key and then flushes the keyboard buffer.
type sdkSink struct {
	sdk   SDK
	index int
}

func (s *sdkSink) Submit(ctx context.Context, batch []led.Snapshot[Key], _ bool) error {
	if len(batch) == 0 {
		return nil
	}
	if err := s.sdk.SelectDevice(s.index); err != nil {
		return fmt.Errorf("selecting keyboard %d: %w", s.index, err)
	}

	sorted := slices.Clone(batch)
	slices.SortFunc(sorted, func(a, b led.Snapshot[Key]) int {
		return cmp.Or(cmp.Compare(a.Data.Row, b.Data.Row), cmp.Compare(a.Data.Col, b.Data.Col))
	})
	for _, snap := range sorted {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.sdk.SetKey(snap.Data.Row, snap.Data.Col, snap.Color); err != nil {
			return fmt.Errorf("setting key %d,%d: %w", snap.Data.Row, snap.Data.Col, err)
		}
	}
	return s.sdk.UpdateKeyboard()
}
