// Package scaler resizes images to a desired width while preserving their
// aspect ratio. It is used for producing thumbnail variants of album
// artwork and artist images.
package scaler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"runtime"

	// The following are all image formats supported for converting
	// to other image sizes.
	_ "image/gif"
	_ "image/png"

	// Additional image formats from the x repository.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// Scaler converts images to different sizes. The number of concurrent
// conversions is limited since decoding and scaling a big image is memory
// hungry.
type Scaler struct {
	sem chan struct{}
}

// New returns a Scaler which will run at most runtime.NumCPU conversions
// at the same time.
func New() *Scaler {
	return &Scaler{
		sem: make(chan struct{}, runtime.NumCPU()),
	}
}

// Scale converts the image (img) to have width toWidth in pixels while
// preserving its aspect ratio. The result is always JPEG encoded.
func (s *Scaler) Scale(
	ctx context.Context,
	img io.Reader,
	toWidth int,
) ([]byte, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("ctx done while waiting for a scale slot: %w", ctx.Err())
	}
	defer func() {
		<-s.sem
	}()

	return scaleImage(img, toWidth)
}

func scaleImage(imgReader io.Reader, toWidth int) ([]byte, error) {
	img, _, err := image.Decode(imgReader)
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	toHeight := toWidth
	imgRect := img.Bounds()
	imgw := imgRect.Max.X - imgRect.Min.X
	imgh := imgRect.Max.Y - imgRect.Min.Y
	if imgw != imgh {
		toHeight = int((float32(imgh) / float32(imgw)) * float32(toWidth))
	}

	dst := image.NewRGBA(image.Rect(0, 0, toWidth, toHeight))
	draw.BiLinear.Scale(dst, dst.Rect, img, imgRect, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, nil); err != nil {
		return nil, fmt.Errorf("error encoding scaled image to JPEG: %w", err)
	}

	return buf.Bytes(), nil
}
