package wooting

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// fakeSDK records calls in order.
type fakeSDK struct {
	calls  []string
	setErr error
}

func (s *fakeSDK) SelectDevice(index int) error {
	s.calls = append(s.calls, fmt.Sprintf("select %d", index))
	return nil
}

func (s *fakeSDK) SetKey(row, col int, c color.NRGBA) error {
	s.calls = append(s.calls, fmt.Sprintf("set %d,%d #%02x%02x%02x", row, col, c.R, c.G, c.B))
	return s.setErr
}

func (s *fakeSDK) UpdateKeyboard() error {
	s.calls = append(s.calls, "flush")
	return nil
}

func (s *fakeSDK) Reset() error {
	s.calls = append(s.calls, "reset")
	return nil
}

func TestNewKeyboardGeometry(t *testing.T) {
	tests := []struct {
		model    Model
		wantSize geometry.Size
		numpad   bool
	}{
		{ModelOne, geometry.Sz(17*KeySize, 6*KeySize), false},
		{ModelTwo, geometry.Sz(21*KeySize, 6*KeySize), true},
	}
	for _, tt := range tests {
		t.Run(string(tt.model), func(t *testing.T) {
			kb, err := NewKeyboard(Options{Model: tt.model, SDK: &fakeSDK{}})
			if err != nil {
				t.Fatalf("NewKeyboard: %v", err)
			}
			if !kb.LogicalSize().Equal(tt.wantSize) {
				t.Errorf("LogicalSize = %v, want %v", kb.LogicalSize(), tt.wantSize)
			}
			if !kb.RequiresFullFlush() {
				t.Error("RequiresFullFlush = false")
			}

			esc, ok := kb.Led(led.KeyboardEscape)
			if !ok {
				t.Fatal("escape missing")
			}
			if esc.Data() != (Key{0, 0}) || !esc.Rectangle().Equal(geometry.Rect(0, 0, KeySize, KeySize)) {
				t.Errorf("escape = %v %v", esc.Data(), esc.Rectangle())
			}

			up, ok := kb.Led(led.KeyboardArrowUp)
			if !ok || up.Data() != (Key{4, 15}) {
				t.Errorf("arrow up = %v, ok=%v", up.Data(), ok)
			}

			if _, ok := kb.Led(led.KeyboardNum5); ok != tt.numpad {
				t.Errorf("numpad present = %v, want %v", ok, tt.numpad)
			}
		})
	}
}

func TestKeyboardUpdateFlushesEveryKey(t *testing.T) {
	sdk := &fakeSDK{}
	kb, err := NewKeyboard(Options{Index: 1, Model: ModelOne, SDK: sdk})
	if err != nil {
		t.Fatalf("NewKeyboard: %v", err)
	}

	esc, _ := kb.Led(led.KeyboardEscape)
	esc.SetColor(color.NRGBA{R: 0xff, A: 0xff})

	n, err := kb.Update(context.Background(), false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n != kb.Len() {
		t.Errorf("Update sent %d leds, want all %d", n, kb.Len())
	}
	if sdk.calls[0] != "select 1" {
		t.Errorf("first call = %q, want select 1", sdk.calls[0])
	}
	if sdk.calls[1] != "set 0,0 #ff0000" {
		t.Errorf("second call = %q, want escape first", sdk.calls[1])
	}
	if last := sdk.calls[len(sdk.calls)-1]; last != "flush" {
		t.Errorf("last call = %q, want flush", last)
	}
}

func TestKeyboardDisposeResets(t *testing.T) {
	sdk := &fakeSDK{}
	kb, err := NewKeyboard(Options{Index: 2, Model: ModelTwo, SDK: sdk})
	if err != nil {
		t.Fatalf("NewKeyboard: %v", err)
	}
	kb.Dispose()
	kb.Dispose()

	want := []string{"select 2", "reset"}
	if len(sdk.calls) != len(want) || sdk.calls[0] != want[0] || sdk.calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", sdk.calls, want)
	}
}

func TestKeyboardSetKeyError(t *testing.T) {
	sdk := &fakeSDK{setErr: errors.New("usb gone")}
	kb, err := NewKeyboard(Options{Model: ModelOne, SDK: sdk})
	if err != nil {
		t.Fatalf("NewKeyboard: %v", err)
	}
	if _, err := kb.Update(context.Background(), false); !errors.Is(err, device.ErrSubmit) {
		t.Errorf("Update error = %v, want ErrSubmit", err)
	}
}

func TestNewKeyboardErrors(t *testing.T) {
	if _, err := NewKeyboard(Options{Model: "three", SDK: &fakeSDK{}}); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("unknown model err = %v", err)
	}
	if _, err := NewKeyboard(Options{Model: ModelOne}); !errors.Is(err, device.ErrSinkRequired) {
		t.Errorf("no sdk err = %v", err)
	}
}

func TestParseModel(t *testing.T) {
	if m, err := ParseModel(" TWO "); err != nil || m != ModelTwo {
		t.Errorf("ParseModel = %q, %v", m, err)
	}
	if _, err := ParseModel("three"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("ParseModel(three) err = %v", err)
	}
}
