package ebitenr

import "image/color"

var (
	feltColor   = color.RGBA{R: 0x0b, G: 0x5d, B: 0x2a, A: 0xff}
	railColor   = color.RGBA{R: 0x4a, G: 0x2c, B: 0x12, A: 0xff}
	cushionLine = color.RGBA{R: 0x1f, G: 0x8a, B: 0x45, A: 0xff}
	pocketColor = color.RGBA{R: 0x08, G: 0x08, B: 0x08, A: 0xff}
	aimColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xc0}
	cueColor    = color.RGBA{R: 0xf5, G: 0xf2, B: 0xe8, A: 0xff}
	stripeWhite = color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
)

// ballBase holds the solid colors of balls 1..8; 9..15 reuse 1..7 as stripes.
var ballBase = [...]color.RGBA{
	{R: 0xf2, G: 0xc1, B: 0x1d, A: 0xff}, // 1 yellow
	{R: 0x1f, G: 0x4e, B: 0xc9, A: 0xff}, // 2 blue
	{R: 0xd6, G: 0x28, B: 0x28, A: 0xff}, // 3 red
	{R: 0x6a, G: 0x2c, B: 0x91, A: 0xff}, // 4 purple
	{R: 0xf0, G: 0x7a, B: 0x14, A: 0xff}, // 5 orange
	{R: 0x1d, G: 0x87, B: 0x3c, A: 0xff}, // 6 green
	{R: 0x7a, G: 0x1f, B: 0x1f, A: 0xff}, // 7 maroon
	{R: 0x11, G: 0x11, B: 0x11, A: 0xff}, // 8 black
}

// BallColor returns the body color of a ball and whether it is striped.
func BallColor(number int) (color.RGBA, bool) {
	if number <= 0 {
		return cueColor, false
	}
	if number <= len(ballBase) {
		return ballBase[number-1], false
	}
	return ballBase[(number-9)%7], true
}
