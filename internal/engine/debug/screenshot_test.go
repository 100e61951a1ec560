package debug

import (
	"image"
	"image/png"
	"os"
	"strings"
	"testing"
)

func TestCaptureFromPixelsFlipsRows(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "test")

	// 2x2 RGBA with a red bottom-left pixel, as GL would read it back.
	const w, h = 2, 2
	pixels := make([]byte, w*h*4)
	pixels[0] = 255 // R of row 0 (bottom), column 0
	pixels[3] = 255 // A

	path, err := sc.CaptureFromPixels(pixels, w, h)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("capture written outside %s: %s", dir, path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening capture: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decoding capture: %v", err)
	}

	// The bottom GL row must land at the image bottom after the flip.
	r, _, _, _ := img.At(0, 1).RGBA()
	if r == 0 {
		t.Error("expected red pixel at bottom-left after row flip")
	}
	r, _, _, _ = img.At(0, 0).RGBA()
	if r != 0 {
		t.Error("expected empty pixel at top-left after row flip")
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "test")
	if _, err := sc.CaptureFromPixels(make([]byte, 7), 2, 2); err == nil {
		t.Error("expected error for mismatched pixel data size")
	}
}

func TestCaptureFromImage(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "heightmap")

	img := image.NewGray16(image.Rect(0, 0, 4, 4))
	path, err := sc.CaptureFromImage(img)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("capture file missing: %v", err)
	}
}
