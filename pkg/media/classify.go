// Package media classifies media files and probes their dimensions.
package media

import (
	"path/filepath"
	"strings"

	"github.com/sdejongh/mediaflow/pkg/models"
)

// Extension sets used when sorting by type
var (
	imageExts = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
		".bmp": true, ".tif": true, ".tiff": true, ".heic": true, ".heif": true,
		".raw": true, ".cr2": true, ".nef": true, ".arw": true, ".dng": true,
	}
	videoExts = map[string]bool{
		".mp4": true, ".mov": true, ".m4v": true, ".mkv": true, ".avi": true, ".wmv": true,
		".webm": true, ".mpg": true, ".mpeg": true, ".3gp": true, ".flv": true,
	}
)

// Narrower sets whose dimensions can be probed when sorting by orientation
var (
	orientImageExts = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".bmp": true,
		".tif": true, ".tiff": true, ".webp": true,
	}
	orientVideoExts = map[string]bool{
		".mp4": true, ".mov": true, ".m4v": true, ".mkv": true, ".avi": true,
		".wmv": true, ".webm": true, ".mpg": true, ".mpeg": true,
	}
)

func normExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Classify returns the media kind for an extension, case-insensitively.
// ok is false when the extension is neither an image nor a video.
func Classify(ext string) (kind models.Kind, ok bool) {
	ext = normExt(ext)
	switch {
	case imageExts[ext]:
		return models.KindImage, true
	case videoExts[ext]:
		return models.KindVideo, true
	}
	return models.KindUnknown, false
}

// ClassifyPath is Classify applied to the extension of path
func ClassifyPath(path string) (models.Kind, bool) {
	return Classify(filepath.Ext(path))
}

// OrientationKind returns the kind for an extension in the orientation
// subset; ok is false for anything outside it.
func OrientationKind(ext string) (kind models.Kind, ok bool) {
	ext = normExt(ext)
	switch {
	case orientImageExts[ext]:
		return models.KindImage, true
	case orientVideoExts[ext]:
		return models.KindVideo, true
	}
	return models.KindUnknown, false
}

// TypeBucket maps a kind to its type-mode bucket
func TypeBucket(kind models.Kind) models.Bucket {
	if kind == models.KindVideo {
		return models.BucketVideos
	}
	return models.BucketImages
}

// OrientationBucket is portrait when width/height < 1; a square is landscape
func OrientationBucket(width, height int) models.Bucket {
	if width < height {
		return models.BucketPortrait
	}
	return models.BucketLandscape
}
