// Package deck holds the in-memory presentation model: slides, shapes,
// text frames, charts, and tables, plus the operations that mutate them.
// Geometry is stored in EMU (English Metric Units); the tool surface
// converts to and from inches at the boundary.
package deck

import "math"

// EMU conversion constants.
// 1 inch = 914400 EMU; at 96 DPI, 914400 / 96 = 9525 EMU per pixel.
// Font metrics use 12700 EMU per point.
const (
	EMUPerInch  int64 = 914400
	EMUPerPixel int64 = 9525
	EMUPerPoint int64 = 12700
)

// FromInches converts inches to EMU, rounding to the nearest unit.
func FromInches(in float64) int64 {
	return int64(math.Round(in * float64(EMUPerInch)))
}

// ToInches converts EMU to inches.
func ToInches(emu int64) float64 {
	return float64(emu) / float64(EMUPerInch)
}

// ToPixels converts EMU to pixels at the given DPI.
func ToPixels(emu int64, dpi int) int {
	if dpi <= 0 {
		dpi = 96
	}
	return int(math.Round(float64(emu) / float64(EMUPerInch) * float64(dpi)))
}

// Centipoints converts a font size in points to OOXML hundredths of a point.
func Centipoints(pt float64) int {
	return int(math.Round(pt * 100))
}
