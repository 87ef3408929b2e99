// Package snapshot renders the current view on the CPU and saves it as PNG.
package snapshot

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/stewi1014/fractalview/programs"
	"github.com/stewi1014/fractalview/viewer"
)

type Options struct {
	// Dir is where snapshots are written. Empty means the working directory.
	Dir string
	// Antialias is the 9x sampling distance in pixels; 0 disables it.
	Antialias float32

	Now    func() time.Time
	Logger *slog.Logger
}

type Saver struct {
	program programs.Program
	opts    Options
}

func NewSaver(program programs.Program, opts Options) *Saver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Saver{
		program: program,
		opts:    opts,
	}
}

// Save renders view at width x height and writes it to a new file,
// returning its path. Nothing is left on disk if it fails.
func (s *Saver) Save(ctx context.Context, view viewer.ViewState, width, height int) (path string, err error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid snapshot size %vx%v", width, height)
	}

	img, err := s.program.GetImage(view.Uniforms(width, height), width, height)
	if err != nil {
		return "", fmt.Errorf("%v: %w", s.program.Name, err)
	}

	if s.opts.Antialias > 0 {
		img = AntiAlias9x(img, s.opts.Antialias)
	}

	start := s.opts.Now()
	buff, err := BufferImage(ctx, ToImage(img))
	if err != nil {
		return "", err
	}

	path = filepath.Join(s.opts.Dir, fmt.Sprintf("fractal-%v.png", s.opts.Now().UnixNano()))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
			path = ""
		}
	}()

	if err := png.Encode(file, buff); err != nil {
		return path, fmt.Errorf("png.Encode: %w", err)
	}

	s.opts.Logger.Debug("rendered snapshot",
		"program", s.program.Name,
		"width", width,
		"height", height,
		"took", s.opts.Now().Sub(start),
	)
	return path, nil
}

// Func adapts s to the viewer's snapshot hook.
func (s *Saver) Func(ctx context.Context) viewer.SnapshotFunc {
	return func(view viewer.ViewState, width, height int) error {
		path, err := s.Save(ctx, view, width, height)
		if err != nil {
			return err
		}
		s.opts.Logger.Info("saved snapshot", "path", path)
		return nil
	}
}
