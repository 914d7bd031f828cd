package core

// Color is the foreground color of one screen cell. The platform layer maps
// each value to an ANSI style; game code only ever names these constants.
type Color uint8

// The palette the race screens draw with: terrain greens and cyans, meter
// and marker brights, gray for the rival field.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)
