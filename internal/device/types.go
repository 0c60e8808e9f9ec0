package device

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// Type is the category of a physical device.
type Type string

// Device types.
const (
	TypeKeyboard       Type = "keyboard"
	TypeMouse          Type = "mouse"
	TypeHeadset        Type = "headset"
	TypeMousepad       Type = "mousepad"
	TypeLedStripe      Type = "led_stripe"
	TypeLedMatrix      Type = "led_matrix"
	TypeMainboard      Type = "mainboard"
	TypeGraphicsCard   Type = "graphics_card"
	TypeDRAM           Type = "dram"
	TypeHeadsetStand   Type = "headset_stand"
	TypeKeypad         Type = "keypad"
	TypeFan            Type = "fan"
	TypeSpeaker        Type = "speaker"
	TypeCooler         Type = "cooler"
	TypeMonitor        Type = "monitor"
	TypeLedController  Type = "led_controller"
	TypeGameController Type = "game_controller"
	TypeUnknown        Type = "unknown"
)

// AllTypes returns all device types.
func AllTypes() []Type {
	return []Type{
		TypeKeyboard, TypeMouse, TypeHeadset, TypeMousepad, TypeLedStripe,
		TypeLedMatrix, TypeMainboard, TypeGraphicsCard, TypeDRAM,
		TypeHeadsetStand, TypeKeypad, TypeFan, TypeSpeaker, TypeCooler,
		TypeMonitor, TypeLedController, TypeGameController, TypeUnknown,
	}
}

// ParseType converts a textual type, ignoring case. Empty means unknown.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeUnknown, nil
	}
	for _, t := range AllTypes() {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

var typeGroups = map[Type]led.Group{
	TypeMouse:          led.GroupMouse,
	TypeHeadset:        led.GroupHeadset,
	TypeMousepad:       led.GroupMousepad,
	TypeLedStripe:      led.GroupLedStripe,
	TypeLedMatrix:      led.GroupLedMatrix,
	TypeMainboard:      led.GroupMainboard,
	TypeGraphicsCard:   led.GroupGraphicsCard,
	TypeDRAM:           led.GroupDRAM,
	TypeHeadsetStand:   led.GroupHeadsetStand,
	TypeKeypad:         led.GroupKeypad,
	TypeFan:            led.GroupFan,
	TypeSpeaker:        led.GroupSpeaker,
	TypeCooler:         led.GroupCooler,
	TypeMonitor:        led.GroupMonitor,
	TypeLedController:  led.GroupLedController,
	TypeGameController: led.GroupGameController,
}

// InitialLedID returns the first identifier handed out to anonymous LEDs of
// a device of type t. Keyboards start at Keyboard_Custom1 so that named
// keys stay free; unknown types use the Custom group.
func InitialLedID(t Type) led.ID {
	if t == TypeKeyboard {
		return led.KeyboardCustom1
	}
	if g, ok := typeGroups[t]; ok {
		return led.First(g)
	}
	return led.First(led.GroupCustom)
}

// Lighting describes how finely a device can be addressed.
type Lighting string

// Lighting capabilities.
const (
	LightingNone   Lighting = "none"
	LightingKey    Lighting = "key"
	LightingDevice Lighting = "device"
)

// ParseLighting converts a textual lighting capability, ignoring case.
// Empty means key-level lighting.
func ParseLighting(s string) (Lighting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(LightingKey):
		return LightingKey, nil
	case string(LightingDevice):
		return LightingDevice, nil
	case string(LightingNone):
		return LightingNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLighting, s)
	}
}

// Info is the vendor-reported metadata of a device.
type Info struct {
	Type         Type     `json:"type"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	Lighting     Lighting `json:"lighting"`

	// Image is the device's display image, usually set from a layout.
	Image *url.URL `json:"-"`
}

// Name returns "<manufacturer> <model>".
func (i Info) Name() string {
	return strings.TrimSpace(i.Manufacturer + " " + i.Model)
}
