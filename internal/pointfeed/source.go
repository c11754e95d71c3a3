// Package pointfeed provides the point clouds drawn over the globe.
//
// A cloud is a flat []float32 of xyz triples. Sources are polled once per
// frame from the render thread.
package pointfeed

import (
	"time"

	"github.com/chewxy/math32"
)

// Source produces point clouds for the overlay.
type Source interface {
	// Next returns the cloud for a frame drawn elapsed after start.
	// changed is false when the previous cloud is still current, in which
	// case points is nil.
	Next(elapsed time.Duration) (points []float32, changed bool)
}

// WaveLen is the number of floats produced by Wave per frame.
const WaveLen = 300

// DefaultWaveModulus is the starting modulus of Wave, in milliseconds.
const DefaultWaveModulus = 1000

// Wave is a deterministic demo source. The cloud is a line of points whose
// spread follows the elapsed time modulo a modulus that itself grows by
// 0.1 per elapsed millisecond.
type Wave struct {
	modulus float32
	lastMs  float32
	buf     []float32
}

// NewWave creates a wave starting at modulus milliseconds.
func NewWave(modulus float32) *Wave {
	if modulus <= 0 {
		modulus = DefaultWaveModulus
	}
	return &Wave{
		modulus: modulus,
		buf:     make([]float32, WaveLen),
	}
}

// Next always reports a new cloud. The returned slice is reused by the
// following call.
func (w *Wave) Next(elapsed time.Duration) ([]float32, bool) {
	ms := float32(elapsed.Seconds() * 1000)
	w.modulus += 0.1 * (ms - w.lastMs)
	w.lastMs = ms

	phase := math32.Mod(ms, w.modulus) / w.modulus
	for i := range w.buf {
		w.buf[i] = float32(i) * phase / WaveLen
	}
	return w.buf, true
}

// Modulus returns the current modulus in milliseconds.
func (w *Wave) Modulus() float32 { return w.modulus }

// Static serves one fixed cloud.
type Static struct {
	points []float32
	sent   bool
}

// NewStatic wraps points. Trailing floats that do not form a full triple
// are dropped.
func NewStatic(points []float32) *Static {
	return &Static{points: points[:len(points)-len(points)%3]}
}

// Next reports the cloud on the first call only.
func (s *Static) Next(time.Duration) ([]float32, bool) {
	if s.sent {
		return nil, false
	}
	s.sent = true
	return s.points, true
}

// None is a source that never produces points.
type None struct{}

// Next never reports a cloud.
func (None) Next(time.Duration) ([]float32, bool) { return nil, false }
