package visualtest

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"marquee14/pkg/page"
	"marquee14/pkg/render"
)

// Frames renders p at each clock time in at, which must not decrease. The
// page clock is advanced to each time in turn.
func Frames(p *page.Page, width, height int, at ...time.Duration) []*image.RGBA {
	frames := make([]*image.RGBA, 0, len(at))
	for _, t := range at {
		if d := t - p.Loop().Now(); d > 0 {
			p.Advance(d)
		} else {
			p.Loop().Flush()
		}
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		p.Render(render.NewRendererForImage(img))
		frames = append(frames, img)
	}
	return frames
}

// SaveFrames writes frames into dir as frame00000.png onwards, for
// inspecting a failed comparison.
func SaveFrames(frames []*image.RGBA, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for i, f := range frames {
		if err := savePNG(f, filepath.Join(dir, fmt.Sprintf("frame%05d.png", i))); err != nil {
			return err
		}
	}
	return nil
}
