package scaler_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/calliopefm/calliope/src/scaler"
)

// TestScalerScale makes sure a big image is scaled down to the requested
// width while preserving its aspect ratio.
func TestScalerScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 600, 300))

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encoding test image: %s", err)
	}

	s := scaler.New()
	scaled, err := s.Scale(context.Background(), &buf, 150)
	if err != nil {
		t.Fatalf("scaling failed: %s", err)
	}

	img, _, err := image.Decode(bytes.NewReader(scaled))
	if err != nil {
		t.Fatalf("decoding the scaled image failed: %s", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 150 || bounds.Dy() != 75 {
		t.Errorf("expected a 150x75 image but got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

// TestScalerScaleBadData makes sure unparsable image data results in an
// error.
func TestScalerScaleBadData(t *testing.T) {
	s := scaler.New()
	_, err := s.Scale(context.Background(), bytes.NewReader([]byte("not an image")), 100)
	if err == nil {
		t.Error("expected an error for bad image data")
	}
}
