package icon

import "math/rand/v2"

// Swatch is a palette color. Reverse is set for light colors that need a
// dark glyph.
type Swatch struct {
	Color   string
	Reverse bool
}

// Palette is the fixed set of colors drawn for custom icons that have no
// module color to inherit.
var Palette = []Swatch{
	{"#FFC4C4", true}, {"#FFE8CD", true}, {"#FFD2C2", true}, {"#FF8989", true},
	{"#FFD19C", true}, {"#FFA685", true}, {"#FF4D4D", false}, {"#FFB868", true},
	{"#FF7846", false}, {"#A83333", false}, {"#A87945", false}, {"#A84F2E", false},
	{"#D2D2FF", true}, {"#F8D4F8", true}, {"#DAC7FF", true}, {"#A3A3FF", true},
	{"#F3AAF0", true}, {"#B592FF", true}, {"#7575FF", false}, {"#EC7DEA", false},
	{"#8E58FF", false}, {"#4D4DA8", false}, {"#934F92", false}, {"#5E3AA8", false},
	{"#EBF8CC", true}, {"#FFD7D7", true}, {"#D2F8ED", true}, {"#D9F399", true},
	{"#FFB1B1", true}, {"#A4F3DD", true}, {"#C5EC63", true}, {"#FF8989", false},
	{"#77ECCA", true}, {"#7B933D", false}, {"#A85B5B", false}, {"#49937E", false},
	{"#FFFACD", true}, {"#D2F1FF", true}, {"#CEF6D1", true}, {"#FFF69C", true},
	{"#A6E4FF", true}, {"#9DECA2", true}, {"#FFF168", true}, {"#78D6FF", true},
	{"#6BE273", true}, {"#A89F45", false}, {"#4F8EA8", false}, {"#428B46", false},
}

// SwatchPicker chooses a palette entry.
type SwatchPicker func() Swatch

// RandomSwatch draws uniformly from Palette.
func RandomSwatch() Swatch {
	return Palette[rand.IntN(len(Palette))]
}
