package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sdejongh/mediaflow/pkg/models"
)

// Dimensions are the upright pixel size of an image or video frame
type Dimensions struct {
	Width  int
	Height int
}

// Decoder reads the dimensions of files it supports
type Decoder interface {
	// Supports reports whether ext (lower-case, with dot) can be decoded
	Supports(ext string) bool
	Decode(ctx context.Context, path string) (Dimensions, error)
}

// Opener opens files for reading; storage.Backend satisfies it
type Opener interface {
	Open(path string) (io.ReadSeekCloser, error)
}

// Chain tries each decoder that supports the extension in turn
type Chain []Decoder

// Supports reports whether any decoder in the chain supports ext
func (c Chain) Supports(ext string) bool {
	for _, d := range c {
		if d.Supports(ext) {
			return true
		}
	}
	return false
}

// Decode returns the first successful result, or the last failure
func (c Chain) Decode(ctx context.Context, path string) (Dimensions, error) {
	ext := normExt(filepath.Ext(path))
	var lastErr error
	for _, d := range c {
		if !d.Supports(ext) {
			continue
		}
		dims, err := d.Decode(ctx, path)
		if err == nil {
			return dims, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return Dimensions{}, &models.CapabilityError{Capability: "decoder", Reason: "no decoder for " + ext}
	}
	return Dimensions{}, lastErr
}

// Probe determines the kind and dimensions of files in the orientation subset
type Probe struct {
	decoder Decoder
}

// NewProbe creates a probe; a nil decoder disables dimension probing
func NewProbe(decoder Decoder) *Probe {
	return &Probe{decoder: decoder}
}

// Available reports whether a decoder is installed
func (p *Probe) Available() bool {
	return p != nil && p.decoder != nil
}

// Probe returns the kind and upright dimensions of the file at path
func (p *Probe) Probe(ctx context.Context, path string) (models.Kind, Dimensions, error) {
	kind, ok := OrientationKind(filepath.Ext(path))
	if !ok {
		return models.KindUnknown, Dimensions{}, &models.ProbeError{Path: path, Op: "probe", Err: models.ErrUnsupportedFormat}
	}
	if !p.Available() {
		return kind, Dimensions{}, &models.ProbeError{Path: path, Op: "probe", Err: models.ErrMissingCapability}
	}

	dims, err := p.decoder.Decode(ctx, path)
	if err != nil {
		var perr *models.ProbeError
		if errors.As(err, &perr) {
			return kind, Dimensions{}, err
		}
		return kind, Dimensions{}, &models.ProbeError{Path: path, Op: "decode", Err: err}
	}
	if dims.Width <= 0 || dims.Height <= 0 {
		return kind, Dimensions{}, &models.ProbeError{Path: path, Op: "decode", Err: fmt.Errorf("invalid dimensions %dx%d", dims.Width, dims.Height)}
	}
	return kind, dims, nil
}
