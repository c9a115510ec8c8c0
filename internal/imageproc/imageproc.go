// Package imageproc prepares user-selected meal photos for the analyzer.
//
// Raw phone photos are routinely several megabytes — far more than an AI
// endpoint needs to recognise a plate of food, and slow to ship as base64.
// The preprocessor decodes whatever the user uploaded (JPEG, PNG, GIF,
// WEBP), caps the width, and re-encodes as a quality-compressed JPEG. The
// same output serves double duty: the analyzer's inline payload and the
// client's preview image.
package imageproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"golang.org/x/image/draw"

	// Codec registrations for image.Decode. JPEG is imported above for
	// its encoder; these three are decode-only side effects.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Defaults for the compressor: 800px wide, 70% JPEG quality. Plenty for
// food recognition, small enough to ship inline.
const (
	DefaultMaxWidth = 800
	DefaultQuality  = 70
)

// Options control the downscale and re-encode. Zero values take the
// defaults.
type Options struct {
	MaxWidth int // widest the output may be, in pixels
	Quality  int // JPEG quality, 1–100
}

// Processed is a compressed, analyzer-ready rendition of an input image.
type Processed struct {
	JPEG   []byte // the re-encoded image
	Width  int
	Height int
}

// Base64 returns the JPEG as a standard base64 payload — the shape the
// analyzer's inline image data wants.
func (p *Processed) Base64() string {
	return base64.StdEncoding.EncodeToString(p.JPEG)
}

// DataURL returns the JPEG as a data: URL for direct use in an <img> tag.
func (p *Processed) DataURL() string {
	return "data:image/jpeg;base64," + p.Base64()
}

// Process decodes, downscales, and re-encodes the image read from r.
//
// Images already narrower than MaxWidth keep their dimensions — we only
// ever scale down, preserving aspect ratio. Decode errors (corrupt or
// unsupported input) are returned as-is for the handler to map to a 400.
func Process(r io.Reader, opts Options) (*Processed, error) {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}
	if opts.Quality <= 0 {
		opts.Quality = DefaultQuality
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageproc: decoding image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > opts.MaxWidth {
		// Scale height proportionally, rounding to nearest.
		height = (opts.MaxWidth*height + width/2) / width
		if height < 1 {
			height = 1
		}
		width = opts.MaxWidth

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("imageproc: encoding jpeg: %w", err)
	}

	return &Processed{
		JPEG:   buf.Bytes(),
		Width:  width,
		Height: height,
	}, nil
}
