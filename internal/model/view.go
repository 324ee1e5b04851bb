package model

import "math"

// ViewState drives the 3D preview.
type ViewState struct {
	Angle     float64 `json:"angle"` // degrees, [0,360)
	IsPlaying bool    `json:"is_playing"`
}

// NormalizeAngle wraps deg into [0,360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
