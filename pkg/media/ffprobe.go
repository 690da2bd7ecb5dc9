package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// RunFunc executes a command and returns its standard output
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr strings.Builder
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// FFProbe queries stream metadata with the ffprobe executable.
// It works on real paths only.
type FFProbe struct {
	bin string
	run RunFunc
}

// NewFFProbe creates a prober; bin defaults to "ffprobe"
func NewFFProbe(bin string) *FFProbe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFProbe{bin: bin, run: execRun}
}

// WithRunner replaces the command runner
func (p *FFProbe) WithRunner(run RunFunc) *FFProbe {
	p.run = run
	return p
}

// LookFFProbe returns a prober when bin resolves on PATH
func LookFFProbe(bin string) (*FFProbe, error) {
	p := NewFFProbe(bin)
	path, err := exec.LookPath(p.bin)
	if err != nil {
		return nil, err
	}
	p.bin = path
	return p, nil
}

type ffprobeOutput struct {
	Streams []struct {
		Width    int               `json:"width"`
		Height   int               `json:"height"`
		Tags     map[string]string `json:"tags"`
		SideData []struct {
			Rotation float64 `json:"rotation"`
		} `json:"side_data_list"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Supports reports whether ext is in the orientation subset
func (p *FFProbe) Supports(ext string) bool {
	ext = normExt(ext)
	return orientImageExts[ext] || orientVideoExts[ext]
}

// Decode returns the upright size of the first video stream
func (p *FFProbe) Decode(ctx context.Context, path string) (Dimensions, error) {
	out, err := p.query(ctx, path, "-select_streams", "v:0", "-show_entries", "stream=width,height:stream_tags=rotate:stream_side_data=rotation")
	if err != nil {
		return Dimensions{}, err
	}
	if len(out.Streams) == 0 {
		return Dimensions{}, errors.New("no video stream found")
	}

	s := out.Streams[0]
	rotation := 0.0
	if r, ok := s.Tags["rotate"]; ok {
		rotation, _ = strconv.ParseFloat(r, 64)
	}
	for _, sd := range s.SideData {
		if sd.Rotation != 0 {
			rotation = sd.Rotation
		}
	}

	dims := Dimensions{Width: s.Width, Height: s.Height}
	if int(math.Abs(rotation))%180 == 90 {
		dims.Width, dims.Height = dims.Height, dims.Width
	}
	return dims, nil
}

// Duration returns the container duration in seconds
func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	out, err := p.query(ctx, path, "-show_entries", "format=duration")
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("no duration reported: %w", err)
	}
	return d, nil
}

func (p *FFProbe) query(ctx context.Context, path string, args ...string) (*ffprobeOutput, error) {
	full := append([]string{"-v", "error"}, args...)
	full = append(full, "-of", "json", path)
	data, err := p.run(ctx, p.bin, full...)
	if err != nil {
		return nil, err
	}
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cannot parse ffprobe output: %w", err)
	}
	return &out, nil
}
