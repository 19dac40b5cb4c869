// Package mpris exposes the playback controller over the MPRIS D-Bus
// interface so desktop media keys and applets can drive it.
package mpris

import (
	"github.com/samber/lo"

	"github.com/llehouerou/scrub/internal/pipeline"
	"github.com/llehouerou/scrub/internal/playback"
)

// Rate bounds advertised to clients.
const (
	MinRate = 0.25
	MaxRate = 4.0
)

// Player is the part of the playback controller MPRIS drives.
type Player interface {
	Play() error
	Pause() error
	Toggle() error
	Seek(t float64) error
	SetRate(rate float64) error
	Position() float64
	Duration() float64
	Rate() float64
	State() pipeline.State
	Session() playback.Session
}

func clampRate(rate float64) float64 {
	return lo.Clamp(rate, MinRate, MaxRate)
}
