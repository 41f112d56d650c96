package render

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/tailwiinder/easymanim/internal/script"
)

// Kind selects the render output mode.
type Kind string

const (
	KindPreview Kind = "preview"
	KindVideo   Kind = "video"
)

// Mode returns the compiler mode matching the render kind.
func (k Kind) Mode() script.Mode {
	if k == KindPreview {
		return script.ModePreview
	}
	return script.ModeVideo
}

// ext returns the expected output file extension.
func (k Kind) ext() string {
	if k == KindPreview {
		return ".png"
	}
	return ".mp4"
}

// Artifact is one produced output file plus its provenance. Artifacts are
// immutable: a new render of the same scene produces a new artifact at a
// new path and never overwrites a prior one.
type Artifact struct {
	Kind Kind
	Path string
	// SourceScriptHash identifies exactly which compiled script produced
	// the artifact.
	SourceScriptHash string
	CreatedAt        time.Time
}

// Thumbnail decodes a preview artifact and downscales it to fit within
// maxEdge pixels on its longer side, for inexpensive UI display.
func Thumbnail(a Artifact, maxEdge int) (image.Image, error) {
	if a.Kind != KindPreview {
		return nil, fmt.Errorf("thumbnails are only produced for preview artifacts, got %s", a.Kind)
	}
	if maxEdge <= 0 {
		return nil, fmt.Errorf("invalid thumbnail edge: %d", maxEdge)
	}

	f, err := os.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.Path, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src, nil
	}

	var tw, th int
	if w >= h {
		tw = maxEdge
		th = h * maxEdge / w
	} else {
		th = maxEdge
		tw = w * maxEdge / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst, nil
}
