package toolkit

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts holds the parsed regular and bold faces plus their raw TTF bytes for
// writers that embed fonts themselves.
type Fonts struct {
	Regular    *opentype.Font
	Bold       *opentype.Font
	RegularTTF []byte
	BoldTTF    []byte
}

// LoadFonts parses the Go font family.
func LoadFonts() (*Fonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Fonts{
		Regular:    regular,
		Bold:       bold,
		RegularTTF: goregular.TTF,
		BoldTTF:    gobold.TTF,
	}, nil
}

// Face returns a new face at size points (72 DPI, so points equal pixels).
// Faces are not safe for concurrent use; callers own and close them.
func (f *Fonts) Face(bold bool, size float64) (font.Face, error) {
	src := f.Regular
	if bold {
		src = f.Bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face size=%.1f bold=%t: %w", size, bold, err)
	}
	return face, nil
}
