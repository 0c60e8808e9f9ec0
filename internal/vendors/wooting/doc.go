// Package wooting exposes Wooting analog keyboards as devices.
//
// The RGB SDK addresses keys by matrix row and column and only applies
// colours on an explicit flush of the whole keyboard buffer, so devices
// built here require full flushes and carry their Key position as LED
// custom data.
package wooting
