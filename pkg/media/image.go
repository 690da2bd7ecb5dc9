package media

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageDecoder reads image headers without decoding the raster
type ImageDecoder struct {
	files Opener
	// exifOrientation swaps width and height for EXIF orientations 5-8
	exifOrientation bool
}

// NewImageDecoder creates a decoder reading through files
func NewImageDecoder(files Opener, exifOrientation bool) *ImageDecoder {
	return &ImageDecoder{files: files, exifOrientation: exifOrientation}
}

// Supports reports whether ext is an image in the orientation subset
func (d *ImageDecoder) Supports(ext string) bool {
	return orientImageExts[normExt(ext)]
}

// Decode returns the image size, rotated when EXIF says so
func (d *ImageDecoder) Decode(ctx context.Context, path string) (Dimensions, error) {
	f, err := d.files.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, fmt.Errorf("cannot decode image: %w", err)
	}
	dims := Dimensions{Width: cfg.Width, Height: cfg.Height}

	if d.exifOrientation && (format == "jpeg" || format == "tiff" || format == "webp") {
		if _, err := f.Seek(0, io.SeekStart); err == nil && rotatedQuarter(f) {
			dims.Width, dims.Height = dims.Height, dims.Width
		}
	}
	return dims, nil
}

// rotatedQuarter reports an EXIF orientation that turns the image by 90 degrees
func rotatedQuarter(r io.Reader) bool {
	x, err := exif.Decode(r)
	if err != nil {
		return false
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return false
	}
	o, err := tag.Int(0)
	if err != nil {
		return false
	}
	return o >= 5 && o <= 8
}
