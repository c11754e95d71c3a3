package scene

// Pulse is the breathing animation applied to the globe mesh. Scale moves by
// Step each frame and reverses direction whenever it leaves [Min, Max).
type Pulse struct {
	Scale float32
	Dir   float32
	Step  float32
	Min   float32
	Max   float32
}

// NewPulse returns a pulse starting at full size and shrinking to half.
func NewPulse() *Pulse {
	return &Pulse{
		Scale: 1.0,
		Dir:   1.0,
		Step:  0.001,
		Min:   0.5,
		Max:   1.0,
	}
}

// Advance moves the animation one frame forward and returns the new scale.
func (p *Pulse) Advance() float32 {
	if p.Scale < p.Min || p.Scale >= p.Max {
		p.Dir = -p.Dir
	}
	p.Scale += p.Dir * p.Step
	return p.Scale
}
