package mqtt

import (
	"fmt"
	"strings"
)

// Topics builds the service's topic names under a common prefix.
//
//	topics := mqtt.Topics{Prefix: "rgbcore"}
//	topics.DeviceLeds("0b6f…")  // rgbcore/device/0b6f…/leds
type Topics struct {
	Prefix string
}

// Status is the retained online/offline topic, also used for the LWT.
//
// Example: rgbcore/status
func (t Topics) Status() string {
	return t.Prefix + "/status"
}

// DeviceLeds carries finalized LED frames of one device.
//
// Example: rgbcore/device/{id}/leds
func (t Topics) DeviceLeds(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/leds", t.Prefix, deviceID)
}

// DeviceSet receives colour commands for one device.
//
// Example: rgbcore/device/{id}/set
func (t Topics) DeviceSet(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/set", t.Prefix, deviceID)
}

// AllDeviceSets matches the command topic of every device.
//
// Pattern: rgbcore/device/+/set
func (t Topics) AllDeviceSets() string {
	return t.Prefix + "/device/+/set"
}

// DeviceFromSet extracts the device ID from a DeviceSet topic.
func (t Topics) DeviceFromSet(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, t.Prefix+"/device/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/set")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
