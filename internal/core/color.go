package core

// Color is a palette slot for a screen cell. The platform maps slots to
// terminal colours; games only pick slots.
type Color uint8

const (
	ColorDefault Color = iota
	ColorTeal          // charge 1
	ColorOrange        // charge 2
	ColorRed           // charge 3, about to burst
	ColorBurst         // discharging cell
	ColorImpact        // landed impact marker
	ColorMiss          // impact leaving the board
	ColorClear         // bomb/laser removal
	ColorCursor
	ColorFrame
	ColorDim
	ColorText
	ColorAccent
	ColorWarn
	ColorGood
)

// ChargeColor returns the colour for a resting cell charge.
func ChargeColor(charge int) Color {
	switch {
	case charge <= 0:
		return ColorDim
	case charge == 1:
		return ColorTeal
	case charge == 2:
		return ColorOrange
	default:
		return ColorRed
	}
}
