package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/handtrack/internal/capture"
	"github.com/ayusman/handtrack/internal/geometry"
	"github.com/ayusman/handtrack/internal/pipeline"
	"github.com/ayusman/handtrack/internal/render"
)

// RenderOptions configures an offline render.
type RenderOptions struct {
	Input  string
	Output string
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
}

// Render reads every frame of a video file and writes the rendered canvas
// to another video file.
func (a *App) Render(ctx context.Context, opts RenderOptions) error {
	if _, err := os.Stat(opts.Input); err != nil {
		return fmt.Errorf("input video: %w", err)
	}

	src := capture.NewFileSource(opts.Input)
	sink := &lazySink{path: opts.Output, source: src}
	defer func() {
		if err := sink.Close(); err != nil {
			a.log.Warn("close output video", zap.Error(err))
		}
	}()

	pcfg := a.pipelineConfig(src)
	pcfg.Presenters = append(pcfg.Presenters, sink)
	if opts.Progress != nil {
		pcfg.Presenters = append(pcfg.Presenters, &progressPresenter{out: opts.Progress, source: src})
	}

	p, err := pipeline.New(pcfg)
	if err != nil {
		return err
	}

	if err := a.run(ctx, p, "file:"+opts.Input); err != nil {
		return err
	}
	a.log.Info("render written", zap.String("output", opts.Output), zap.Int("frames", sink.Frames()))
	return nil
}

// lazySink opens the output video on the first frame, once the canvas size
// and the source frame rate are known.
type lazySink struct {
	path   string
	source capture.Camera
	sink   *render.VideoSink
}

func (s *lazySink) Present(canvas *gocv.Mat) error {
	if s.sink == nil {
		res := geometry.Resolution{Width: canvas.Cols(), Height: canvas.Rows()}
		sink, err := render.NewVideoSink(s.path, float64(s.source.FPS()), res)
		if err != nil {
			return err
		}
		s.sink = sink
	}
	return s.sink.Present(canvas)
}

func (s *lazySink) Frames() int {
	if s.sink == nil {
		return 0
	}
	return s.sink.Frames()
}

func (s *lazySink) Close() error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Close()
}

// progressPresenter advances a progress bar once per presented frame. The
// total comes from the open source; an unknown total shows a spinner.
type progressPresenter struct {
	out    io.Writer
	source *capture.FileSource
	bar    *progressbar.ProgressBar
}

func (p *progressPresenter) Present(*gocv.Mat) error {
	if p.bar == nil {
		total := int64(p.source.FrameCount())
		if total <= 0 {
			total = -1
		}
		p.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetDescription("Rendering"),
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionShowCount(),
		)
	}
	return p.bar.Add(1)
}
