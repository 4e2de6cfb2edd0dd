// Package imaging implements the pixel algorithms and the codec boundary of
// the image vault.
//
// Every function in this package is pure: it reads a *pixel.Buffer and
// returns a new one, never modifying its input. That lets the vault run the
// work on a worker pool and install the result atomically, leaving the old
// buffer intact if anything fails.
//
// # Native Encodings
//
// Algorithms switch on the buffer's encoding and operate on raw bytes where
// a dedicated path exists:
//   - Geometry (crop, rotate, flip) moves whole pixels and never changes the
//     encoding.
//   - Sharpen, invert, brightness and contrast touch colour samples only and
//     leave alpha alone.
//   - Edge detection and emboss work on luminance and always return Luma.
//   - Saturation and hue go through HSL; a Luma buffer has no chroma and is
//     returned unchanged.
//   - Sepia and compositing need colour, so Luma input is promoted.
//
// # Coordinate System
//
// (0,0) is the top-left pixel, X grows rightward and Y grows downward.
// Regions are given by their top-left corner plus width and height.
//
// # Error Handling
//
// Errors use github.com/jmgilman/go/errors codes: CodeDecodeFailed and
// CodeEncodeFailed at the codec boundary, errors.CodeInvalidInput for
// degenerate parameters such as zero-sized resizes or empty crops.
package imaging
