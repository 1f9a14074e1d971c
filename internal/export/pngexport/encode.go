package pngexport

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
)

// encode writes img in format. WebP output is lossless, so quality only applies to JPEG.
func encode(img image.Image, format Format, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		q := int(quality*100 + 0.5)
		if q < 1 {
			q = 1
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: q})
	case FormatWebP:
		err = nativewebp.Encode(&buf, img, nil)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("encode %s: encoder produced no output", format)
	}
	return buf.Bytes(), nil
}
