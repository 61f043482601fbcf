// Package render turns catalog records into pixels. It loads source
// media, applies the asset's effective filter transform, produces
// named thumbnail sizes into a byte cache, and recomputes perceptual
// hashes after pixel-affecting edits.
package render
