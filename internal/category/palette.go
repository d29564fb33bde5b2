package category

import "github.com/cespare/xxhash/v2"

// Base colors handed out to extensions without an explicit override.
// Picked for contrast on dark terminals.
var baseColors = []string{
	"#C084FC", // violet
	"#39FF14", // neon green
	"#FF5555", // red
	"#FFB86C", // orange
	"#5EEAD4", // teal
	"#F1FA8C", // yellow
	"#FF79C6", // pink
	"#8BE9FD", // light cyan
	"#BD93F9", // lavender
	"#50FA7B", // green
	"#FFC0CB", // rose
	"#E6B450", // gold
	"#7AA2F7", // blue
	"#9ECE6A", // moss
	"#F7768E", // coral
	"#2AC3DE", // sky
}

// Palette resolves tokens to hex colors. Unknown tokens hash onto the
// base list, so an extension keeps its color across runs and machines.
type Palette struct {
	overrides map[Token]string
}

// NewPalette builds a palette with per-token overrides, typically from
// the [colors] table of the config file
func NewPalette(overrides map[string]string) *Palette {
	p := &Palette{overrides: make(map[Token]string, len(overrides))}
	for tok, hex := range overrides {
		p.overrides[Token(tok)] = hex
	}
	return p
}

// Color returns the hex color for a token
func (p *Palette) Color(tok Token) string {
	if p != nil && p.overrides != nil {
		if hex, ok := p.overrides[tok]; ok {
			return hex
		}
	}
	switch tok {
	case Dir:
		return "#00FFFF" // cyan, directories
	case Plain, "":
		return "#A0A0A0" // dim gray, plain files
	}
	return baseColors[xxhash.Sum64String(string(tok))%uint64(len(baseColors))]
}
