// Package layout reads device layout documents and serves them to the
// placement code in the device package.
//
// A layout describes a device's logical size, the rectangle and shape of
// every LED, and optional images. Documents are YAML:
//
//	name: Example Keyboard
//	vendor: Example
//	model: K1
//	width: 442
//	height: 157
//	image_base_path: images
//	device_image: k1.png
//	leds:
//	  - id: Keyboard_Escape
//	    x: 10
//	    y: 10
//	  - id: Keyboard_F1
//	    x: +19
//	  - id: Logo
//	    x: 200
//	    y: 0
//	    width: 30mm
//	    height: 10mm
//	    shape: custom
//	    shape_data: M 0 0 L 1 0 L 0.5 1 Z
//	image_layouts:
//	  - layout: ISO
//	    images:
//	      - id: Keyboard_Escape
//	        image: keys/esc.png
//
// # Sources
//
//   - DirSource: files under <dir>/<manufacturer>/<model>.yaml
//   - Catalog: documents stored in the SQLite layouts table
//   - Chain: first source that has the layout wins
//
// Parse and Load validate the whole document before returning it, so a
// layout either applies completely or fails with ErrMalformed.
package layout
