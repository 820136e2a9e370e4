package model

// Color is a palette token for a tag. Shells map tokens to real colors.
type Color string

const (
	ColorStone   Color = "stone"
	ColorRose    Color = "rose"
	ColorBlue    Color = "blue"
	ColorEmerald Color = "emerald"
	ColorAmber   Color = "amber"
	ColorPurple  Color = "purple"
	ColorOrange  Color = "orange"
	ColorCyan    Color = "cyan"
)

// Palette lists the colors a tag can take, in picker order
var Palette = []Color{
	ColorStone, ColorRose, ColorBlue, ColorEmerald,
	ColorAmber, ColorPurple, ColorOrange, ColorCyan,
}

// Valid returns true if c is one of the palette tokens
func (c Color) Valid() bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// NextColor picks the palette color after the one used most recently, so
// consecutive tags get distinct colors.
func NextColor(tags []Tag) Color {
	if len(tags) == 0 {
		return Palette[0]
	}
	last := tags[len(tags)-1].Color
	for i, p := range Palette {
		if p == last {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[len(tags)%len(Palette)]
}
