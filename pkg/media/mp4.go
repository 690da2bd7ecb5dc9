package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/abema/go-mp4"
)

// MP4Decoder reads track headers of ISO-BMFF files (MP4, MOV, M4V)
type MP4Decoder struct {
	files Opener
}

// NewMP4Decoder creates a decoder reading through files
func NewMP4Decoder(files Opener) *MP4Decoder {
	return &MP4Decoder{files: files}
}

// Supports reports whether ext is an ISO-BMFF container
func (d *MP4Decoder) Supports(ext string) bool {
	switch normExt(ext) {
	case ".mp4", ".mov", ".m4v":
		return true
	}
	return false
}

// Decode returns the size of the first visual track
func (d *MP4Decoder) Decode(ctx context.Context, path string) (Dimensions, error) {
	f, err := d.files.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer f.Close()
	return MP4Dimensions(f)
}

// MP4Dimensions reads the first track header with a non-zero size.
// A rotation of 90 or 270 degrees in the track matrix swaps the sides.
func MP4Dimensions(r io.ReadSeeker) (Dimensions, error) {
	boxes, err := mp4.ExtractBoxWithPayload(r, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeTrak(), mp4.BoxTypeTkhd()})
	if err != nil {
		return Dimensions{}, fmt.Errorf("cannot read container: %w", err)
	}
	for _, b := range boxes {
		tkhd, ok := b.Payload.(*mp4.Tkhd)
		if !ok {
			continue
		}
		w, h := int(tkhd.Width>>16), int(tkhd.Height>>16)
		if w == 0 || h == 0 {
			continue
		}
		// matrix is {a, b, u, c, d, v, x, y, w}; a == d == 0 means a quarter turn
		if tkhd.Matrix[0] == 0 && tkhd.Matrix[4] == 0 && tkhd.Matrix[1] != 0 {
			w, h = h, w
		}
		return Dimensions{Width: w, Height: h}, nil
	}
	return Dimensions{}, errors.New("no video track found")
}

// MP4Duration returns the movie duration in seconds from the mvhd box
func MP4Duration(r io.ReadSeeker) (float64, error) {
	boxes, err := mp4.ExtractBoxWithPayload(r, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		return 0, fmt.Errorf("cannot read container: %w", err)
	}
	for _, b := range boxes {
		mvhd, ok := b.Payload.(*mp4.Mvhd)
		if !ok || mvhd.Timescale == 0 {
			continue
		}
		units := uint64(mvhd.DurationV0)
		if mvhd.GetVersion() == 1 {
			units = mvhd.DurationV1
		}
		return float64(units) / float64(mvhd.Timescale), nil
	}
	return 0, errors.New("no movie header found")
}
