package braitenberg

import (
	"hash/fnv"
	"image/color"
)

var namedColors = map[Label]color.RGBA{
	"red":     {R: 0xe0, G: 0x30, B: 0x30, A: 0xff},
	"green":   {R: 0x30, G: 0xb0, B: 0x40, A: 0xff},
	"blue":    {R: 0x30, G: 0x60, B: 0xe0, A: 0xff},
	"grey":    {R: 0x90, G: 0x90, B: 0x90, A: 0xff},
	"gray":    {R: 0x90, G: 0x90, B: 0x90, A: 0xff},
	"yellow":  {R: 0xe0, G: 0xc0, B: 0x20, A: 0xff},
	"orange":  {R: 0xf0, G: 0x80, B: 0x20, A: 0xff},
	"purple":  {R: 0x90, G: 0x40, B: 0xc0, A: 0xff},
	"cyan":    {R: 0x20, G: 0xc0, B: 0xd0, A: 0xff},
	"magenta": {R: 0xd0, G: 0x30, B: 0xb0, A: 0xff},
	"black":   {R: 0x20, G: 0x20, B: 0x20, A: 0xff},
	"white":   {R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
}

// RGBA returns the display colour of a label. Labels that do not name a
// colour get a stable one derived from their text.
func (l Label) RGBA() color.RGBA {
	if c, ok := namedColors[l]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(l))
	s := h.Sum32()
	return color.RGBA{R: 0x40 | byte(s), G: 0x40 | byte(s>>8), B: 0x40 | byte(s>>16), A: 0xff}
}
