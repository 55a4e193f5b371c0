// SPDX-License-Identifier: Unlicense OR MIT

/*
Package unit implements device independent units.

Device independent pixel, or dp, is the unit for distances independent
of the underlying input surface. Surface coordinates, as reported by
touch contacts, are in pixels (px).

Gesture thresholds are defined in dps and converted to pixels with
a Metric, so that a slop feels the same on dense and sparse surfaces.
*/
package unit

import (
	"fmt"
	"math"
)

// Metric converts Dp values to surface pixels.
type Metric struct {
	// PxPerDp is the device pixels per dp. A zero or
	// negative value is treated as 1.
	PxPerDp float32
}

// Dp represents device independent pixels. 1 dp will
// have the same apparent size across surfaces.
type Dp float32

// Dp converts v to surface pixels.
func (c Metric) Dp(v Dp) float32 {
	return float32(v) * nonZero(c.PxPerDp)
}

func (v Dp) String() string {
	return fmt.Sprintf("%gdp", float32(v))
}

func nonZero(v float32) float32 {
	if v <= 0 || math.IsNaN(float64(v)) {
		return 1.0
	}
	return v
}
