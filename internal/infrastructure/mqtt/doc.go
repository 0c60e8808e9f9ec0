// Package mqtt provides the broker connection used to publish LED frames
// and receive colour commands.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS and payload-size checks
//   - Subscriptions restored after reconnects
//   - Last Will and Testament on <prefix>/status for offline detection
//
// # Topics
//
//	<prefix>/status              retained online/offline status
//	<prefix>/device/<id>/leds    finalized LED frames (sink.MQTT)
//	<prefix>/device/<id>/set     colour commands (host.CommandHandler)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(client.Topics().AllDeviceSets(), 0, handler)
package mqtt
