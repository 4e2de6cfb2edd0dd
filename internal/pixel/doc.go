// Package pixel defines the native pixel buffer shared by the image vault.
//
// A Buffer is a tagged variant over three 8-bit encodings: single-channel
// Luma, three-channel RGB and four-channel RGBA. Algorithms switch on the
// Encoding tag and work on the raw bytes directly, converting to RGBA only
// when an encoding has no dedicated path.
package pixel
