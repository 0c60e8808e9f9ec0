package host

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/google/uuid"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// Command is the payload of a device set message. Exactly one of Fill or
// Led must be set; Color accompanies Led.
type Command struct {
	Led   string `json:"led,omitempty"`
	Color string `json:"color,omitempty"`
	Fill  string `json:"fill,omitempty"`
}

// CommandTopics resolves the device ID of a command topic.
type CommandTopics interface {
	DeviceFromSet(topic string) (string, bool)
}

// CommandHandler returns a handler applying commands received on the set
// topics of topics. It matches the MQTT client's MessageHandler.
func (h *Host) CommandHandler(topics CommandTopics) func(topic string, payload []byte) error {
	return func(topic string, payload []byte) error {
		raw, ok := topics.DeviceFromSet(topic)
		if !ok {
			return fmt.Errorf("%w: unexpected topic %q", ErrInvalidCommand, topic)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: device id %q", ErrInvalidCommand, raw)
		}
		return h.HandleCommand(id, payload)
	}
}

// HandleCommand decodes payload as a Command and stages it on the device.
func (h *Host) HandleCommand(id uuid.UUID, payload []byte) error {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	switch {
	case cmd.Fill != "" && cmd.Led == "":
		c, err := led.ParseColor(cmd.Fill)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
		return h.Do(id, func(ctrl device.Controller) error {
			ctrl.Fill(c)
			return nil
		})

	case cmd.Led != "" && cmd.Fill == "":
		target, err := led.Parse(cmd.Led)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
		var c color.NRGBA
		if c, err = led.ParseColor(cmd.Color); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
		h.logger.Debug("led command", "device", id, "led", target, "color", cmd.Color)
		return h.Do(id, func(ctrl device.Controller) error {
			return ctrl.SetColor(target, c)
		})

	default:
		return fmt.Errorf("%w: need exactly one of led or fill", ErrInvalidCommand)
	}
}
