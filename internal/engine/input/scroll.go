package input

// ScrollUnit is the convention a host reports scroll input in.
type ScrollUnit int

const (
	// ScrollLines is a count of wheel notches.
	ScrollLines ScrollUnit = iota
	// ScrollPixels is a continuous offset in physical pixels.
	ScrollPixels
)

// DefaultLineHeight converts one wheel notch to logical pixels.
const DefaultLineHeight = 5.0

// ScrollDelta is a vertical scroll amount in the host's native unit.
type ScrollDelta struct {
	Unit ScrollUnit
	Y    float64
}

// Lines returns a line-based delta.
func Lines(y float64) ScrollDelta {
	return ScrollDelta{Unit: ScrollLines, Y: y}
}

// Pixels returns a pixel-based delta.
func Pixels(y float64) ScrollDelta {
	return ScrollDelta{Unit: ScrollPixels, Y: y}
}

// Normalized converts the delta to logical pixels so a wheel notch and the
// equivalent trackpad motion zoom by the same amount. Line deltas are
// multiplied by lineHeight; pixel deltas are divided by the display scale
// factor. Non-positive arguments fall back to DefaultLineHeight and 1.
func (d ScrollDelta) Normalized(lineHeight, scaleFactor float64) float64 {
	switch d.Unit {
	case ScrollPixels:
		if scaleFactor <= 0 {
			scaleFactor = 1
		}
		return d.Y / scaleFactor
	default:
		if lineHeight <= 0 {
			lineHeight = DefaultLineHeight
		}
		return d.Y * lineHeight
	}
}
