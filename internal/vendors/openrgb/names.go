package openrgb

import (
	"strconv"

	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// DefaultNames maps OpenRGB LED names to identifiers.
var DefaultNames = buildDefaultNames()

func buildDefaultNames() map[string]led.ID {
	m := map[string]led.ID{
		"Key: Escape":           led.KeyboardEscape,
		"Key: Print Screen":     led.KeyboardPrintScreen,
		"Key: Scroll Lock":      led.KeyboardScrollLock,
		"Key: Pause/Break":      led.KeyboardPauseBreak,
		"Key: `":                led.KeyboardGraveAccentAndTilde,
		"Key: -":                led.KeyboardMinusAndUnderscore,
		"Key: =":                led.KeyboardEqualsAndPlus,
		"Key: Backspace":        led.KeyboardBackspace,
		"Key: Insert":           led.KeyboardInsert,
		"Key: Home":             led.KeyboardHome,
		"Key: Page Up":          led.KeyboardPageUp,
		"Key: Num Lock":         led.KeyboardNumLock,
		"Key: Number Pad /":     led.KeyboardNumSlash,
		"Key: Number Pad *":     led.KeyboardNumAsterisk,
		"Key: Number Pad -":     led.KeyboardNumMinus,
		"Key: Tab":              led.KeyboardTab,
		"Key: [":                led.KeyboardBracketLeft,
		"Key: ]":                led.KeyboardBracketRight,
		"Key: \\ (ANSI)":        led.KeyboardBackslash,
		"Key: Delete":           led.KeyboardDelete,
		"Key: End":              led.KeyboardEnd,
		"Key: Page Down":        led.KeyboardPageDown,
		"Key: Number Pad +":     led.KeyboardNumPlus,
		"Key: Caps Lock":        led.KeyboardCapsLock,
		"Key: ;":                led.KeyboardSemicolonAndColon,
		"Key: '":                led.KeyboardApostropheAndDoubleQuote,
		"Key: #":                led.KeyboardNonUsTilde,
		"Key: Enter":            led.KeyboardEnter,
		"Key: Left Shift":       led.KeyboardLeftShift,
		"Key: \\ (ISO)":         led.KeyboardNonUsBackslash,
		"Key: ,":                led.KeyboardCommaAndLessThan,
		"Key: .":                led.KeyboardPeriodAndBiggerThan,
		"Key: /":                led.KeyboardSlashAndQuestionMark,
		"Key: Right Shift":      led.KeyboardRightShift,
		"Key: Up Arrow":         led.KeyboardArrowUp,
		"Key: Number Pad Enter": led.KeyboardNumEnter,
		"Key: Left Control":     led.KeyboardLeftCtrl,
		"Key: Left Windows":     led.KeyboardLeftGui,
		"Key: Left Alt":         led.KeyboardLeftAlt,
		"Key: Space":            led.KeyboardSpace,
		"Key: Right Alt":        led.KeyboardRightAlt,
		"Key: Right Windows":    led.KeyboardRightGui,
		"Key: Menu":             led.KeyboardApplication,
		"Key: Right Control":    led.KeyboardRightCtrl,
		"Key: Left Arrow":       led.KeyboardArrowLeft,
		"Key: Down Arrow":       led.KeyboardArrowDown,
		"Key: Right Arrow":      led.KeyboardArrowRight,
		"Key: Number Pad .":     led.KeyboardNumPeriodAndDelete,
		"Key: Media Mute":       led.KeyboardMediaMute,
		"Key: Media Volume -":   led.KeyboardMediaVolumeDown,
		"Key: Media Volume +":   led.KeyboardMediaVolumeUp,
		"Key: Media Stop":       led.KeyboardMediaStop,
		"Key: Media Previous":   led.KeyboardMediaPreviousTrack,
		"Key: Media Play/Pause": led.KeyboardMediaPlay,
		"Key: Media Next":       led.KeyboardMediaNextTrack,
		"Key: Right Fn":         led.KeyboardFunction,
		"Logo":                  led.Logo,
	}

	for i := range 12 {
		m["Key: F"+strconv.Itoa(i+1)] = led.KeyboardF1 + led.ID(i)
	}
	for i := range 10 {
		m["Key: Number Pad "+strconv.Itoa(i)] = numpad(i)
	}
	digits := []led.ID{
		led.Keyboard0, led.Keyboard1, led.Keyboard2, led.Keyboard3, led.Keyboard4,
		led.Keyboard5, led.Keyboard6, led.Keyboard7, led.Keyboard8, led.Keyboard9,
	}
	for i, id := range digits {
		m["Key: "+strconv.Itoa(i)] = id
	}
	for c := 'A'; c <= 'Z'; c++ {
		if id, err := led.Parse("Keyboard_" + string(c)); err == nil {
			m["Key: "+string(c)] = id
		}
	}
	return m
}

func numpad(n int) led.ID {
	return []led.ID{
		led.KeyboardNum0, led.KeyboardNum1, led.KeyboardNum2, led.KeyboardNum3, led.KeyboardNum4,
		led.KeyboardNum5, led.KeyboardNum6, led.KeyboardNum7, led.KeyboardNum8, led.KeyboardNum9,
	}[n]
}
