package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/export"
	"github.com/df07/go-sphere-raytracer/pkg/ppm"
	"github.com/df07/go-sphere-raytracer/pkg/publish"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	err := run(ctx, os.Args[1:], config.EnvFile(), os.Stderr, logger)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

// run parses args, renders the selected scene and writes the outputs
func run(ctx context.Context, args []string, envFile string, stderr io.Writer, logger core.Logger) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs) }
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	selectedScene, err := scene.New(cfg.Scene, cfg.Width)
	if err != nil {
		return err
	}

	logger.Printf("Using %s scene...\n", selectedScene.Name)
	raytracer := selectedScene.NewRaytracer()
	raytracer.SetLogger(logger)

	if !cfg.Quiet {
		bar := newProgressBar(selectedScene.Width*selectedScene.Height, stderr)
		barFailed := false
		raytracer.SetProgress(func(done, _ int) {
			if err := bar.Set(done); err != nil && !barFailed {
				barFailed = true
				logger.Printf("Progress bar disabled: %v\n", err)
			}
		})
		defer bar.Finish()
	}

	img, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}

	if err := export.Save(img, cfg.Output); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", cfg.Output)

	if cfg.Thumbnail > 0 {
		thumbPath := export.ThumbnailPath(cfg.Output)
		if err := export.Save(export.Thumbnail(img, cfg.Thumbnail), thumbPath); err != nil {
			return err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbPath)
	}

	if cfg.Upload {
		return upload(ctx, cfg, selectedScene.Name, img, logger)
	}
	return nil
}

// upload publishes the encoded render to the configured bucket
func upload(ctx context.Context, cfg *config.Config, sceneName string, img *ppm.Image, logger core.Logger) error {
	uploader, err := publish.NewUploader(cfg.S3, logger)
	if err != nil {
		return err
	}

	ext := filepath.Ext(cfg.Output)
	var buf bytes.Buffer
	if err := export.Encode(&buf, img, ext); err != nil {
		return err
	}

	return uploader.Upload(ctx, uploader.Key(sceneName, cfg.Output), buf.Bytes(), export.ContentType(ext))
}

func newProgressBar(totalPixels int, out io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(totalPixels,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Rendering"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
	)
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Sphere Raytracer")
	fmt.Fprintln(out, "Usage: raytracer [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Available scenes:")
	for _, info := range scene.List() {
		fmt.Fprintf(out, "  %-14s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Settings can also come from RAYTRACER_* and S3_* variables or a .env file.")
}
