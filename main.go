package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/stewi1014/fractalview/programs"
	"github.com/stewi1014/fractalview/snapshot"
	"github.com/stewi1014/fractalview/viewer"
)

func init() {
	// GLFW and GL calls must all come from the main thread.
	runtime.LockOSThread()
}

type Config struct {
	Width       int
	Height      int
	Program     string
	Shader      string
	SnapshotDir string
	Antialias   float32
	Debug       bool
}

func main() {
	cfg := Config{
		Width:   1280,
		Height:  720,
		Program: "mandelbrot",
	}

	rootCmd := &cobra.Command{
		Use:   "fractalview [flags]",
		Short: "Real-time GPU fractal viewer",
		Long: `Renders a fractal with a fragment shader in a window.

Drag with the left mouse button to pan and scroll to zoom.
Keypad +/- (or =/-) change the iteration count, space resets the view,
P saves a PNG snapshot of the current view and escape quits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().IntVar(&cfg.Width, "width", cfg.Width, "Window width in pixels")
	rootCmd.Flags().IntVar(&cfg.Height, "height", cfg.Height, "Window height in pixels")
	rootCmd.Flags().StringVarP(&cfg.Program, "program", "p", cfg.Program,
		"Fractal to draw ("+strings.Join(programs.Names(), ", ")+")")
	rootCmd.Flags().StringVar(&cfg.Shader, "shader", "", "Path to a fragment shader replacing the program's own")
	rootCmd.Flags().StringVar(&cfg.SnapshotDir, "snapshot-dir", "", "Directory snapshots are written to (default working directory)")
	rootCmd.Flags().Float32Var(&cfg.Antialias, "antialias", 0, "Snapshot 9x antialiasing distance in pixels, 0 to disable")
	rootCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging and GL debug output")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		stop()
		os.Exit(1)
	}
}

func setupLogging(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

func (cfg Config) validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid window size %vx%v", cfg.Width, cfg.Height)
	}
	if cfg.Antialias < 0 {
		return fmt.Errorf("antialias distance must not be negative, got %v", cfg.Antialias)
	}
	return nil
}

// loadProgram picks the program to draw, swapping in the fragment shader
// from cfg.Shader if one is given.
func (cfg Config) loadProgram() (programs.Program, error) {
	program, err := programs.GetProgram(cfg.Program)
	if err != nil {
		return programs.Program{}, err
	}

	if cfg.Shader == "" {
		return program, nil
	}

	src, err := programs.Load(cfg.Shader)
	if err != nil {
		return programs.Program{}, err
	}
	return program.WithFragmentShader(src), nil
}

func run(ctx context.Context, cfg Config) error {
	logger := setupLogging(cfg.Debug)

	if err := cfg.validate(); err != nil {
		return err
	}

	program, err := cfg.loadProgram()
	if err != nil {
		return err
	}

	window, err := NewRenderWindow(cfg.Width, cfg.Height, cfg.Debug)
	if err != nil {
		return err
	}
	defer window.Destroy()

	width, height := window.Size()
	renderer, err := NewRenderer(program, width, height, cfg.Debug)
	if err != nil {
		return err
	}
	defer renderer.Delete()

	saver := snapshot.NewSaver(program, snapshot.Options{
		Dir:       cfg.SnapshotDir,
		Antialias: cfg.Antialias,
		Logger:    logger,
	})

	v := viewer.New(window, renderer, viewer.Options{
		FPS:      os.Stdout,
		Snapshot: saver.Func(ctx),
		Logger:   logger,
	})

	err = v.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
