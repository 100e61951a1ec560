package heightfield

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// ExportImage renders the raw sample grid as a 16-bit grayscale image,
// row 0 at the top. Useful for inspecting generation and erosion output.
func (f *Field) ExportImage() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.res, f.res))
	for j := 0; j < f.res; j++ {
		for i := 0; i < f.res; i++ {
			v := f.data[j*f.res+i] / MaxSample
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			img.SetGray16(i, j, color.Gray16{Y: uint16(v * 65535)})
		}
	}
	return img
}

// ExportPNG writes the grid to a PNG file.
func (f *Field) ExportPNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, f.ExportImage()); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
