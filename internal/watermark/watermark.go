// Package watermark stamps shipment pictures with a repeated overlay mark.
//
// Apply is a pure function over image bytes: no network, no store access,
// deterministic output for identical input. This keeps the processor
// independently testable from the rest of the pipeline.
package watermark

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Stamp text repeated across the image. Kept short so it tiles cleanly
// on small pictures.
const stampText = "SHIPMENT VERIFIED"

// Tile spacing for the repeated stamp, in pixels.
const (
	tileWidth  = 220
	tileHeight = 90
)

// stampOpacity is the blend factor for the overlay (0..1).
const stampOpacity = 0.35

// jpegQuality for the re-encoded output.
const jpegQuality = 90

// Apply decodes an image, composites the repeated stamp over it, and
// returns the result encoded as JPEG. The input slice is never modified.
//
// Returns *DecodeError for corrupt or unsupported input and
// *ProcessingError for rendering/encoding failures.
func Apply(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &ProcessingError{Reason: "image has zero width or height"}
	}

	overlay := renderStampOverlay(bounds.Dx(), bounds.Dy())
	stamped := imaging.Overlay(src, overlay, image.Pt(0, 0), stampOpacity)

	var out bytes.Buffer
	if err := imaging.Encode(&out, stamped, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, &ProcessingError{Reason: "encode output", Err: err}
	}
	return out.Bytes(), nil
}

// renderStampOverlay draws the stamp text in a staggered grid onto a
// transparent RGBA canvas of the given size.
func renderStampOverlay(width, height int) *image.RGBA {
	overlay := image.NewRGBA(image.Rect(0, 0, width, height))

	drawer := &font.Drawer{
		Dst:  overlay,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
	}

	row := 0
	for y := tileHeight / 2; y < height+tileHeight; y += tileHeight {
		// Stagger alternate rows so the stamp covers crops of any region.
		xOffset := 0
		if row%2 == 1 {
			xOffset = tileWidth / 2
		}
		for x := -tileWidth + xOffset; x < width; x += tileWidth {
			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(stampText)
		}
		row++
	}

	return overlay
}
