package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decoder registration
)

const DefaultMaxEdge = 1600

// Result is the outcome of Fit.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
}

// Processor handles image processing operations
type Processor struct {
	quality int // JPEG quality (1-100)
	maxEdge int
}

// NewProcessor creates a new image processor
func NewProcessor(quality, maxEdge int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85 // Default quality
	}
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	return &Processor{
		quality: quality,
		maxEdge: maxEdge,
	}
}

// Fit downscales the image so that its longest edge is at most maxEdge.
// Images already within bounds, and formats we cannot re-encode (gif), are returned untouched.
// Oversized webp is re-encoded as JPEG.
func (p *Processor) Fit(data []byte, contentType string) (*Result, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	res := &Result{Data: data, ContentType: contentType, Width: cfg.Width, Height: cfg.Height}
	if (cfg.Width <= p.maxEdge && cfg.Height <= p.maxEdge) || format == "gif" {
		return res, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	resized := p.resize(img, p.maxEdge, p.maxEdge)

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		res.ContentType = "image/png"
	case "jpeg", "webp":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		res.ContentType = "image/jpeg"
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	b := resized.Bounds()
	res.Data = buf.Bytes()
	res.Width, res.Height = b.Dx(), b.Dy()
	res.Resized = true
	return res, nil
}

// resize resizes an image maintaining aspect ratio
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
