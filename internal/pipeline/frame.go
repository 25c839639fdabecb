package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/handtrack/internal/geometry"
	"github.com/ayusman/handtrack/internal/gesture"
	"github.com/ayusman/handtrack/internal/metrics"
	"github.com/ayusman/handtrack/internal/render"
	"github.com/ayusman/handtrack/internal/skeleton"
)

// HandResult is the per-hand output of one frame.
type HandResult struct {
	Handedness string              `json:"handedness"`
	Score      float64             `json:"score"`
	Landmarks  geometry.PixelHand  `json:"landmarks"`
	FingersUp  gesture.FingerState `json:"fingers_up"`
	InFrame    bool                `json:"in_frame"`
}

// Result is everything computed for one frame. It shares nothing with
// other frames.
type Result struct {
	Session    string              `json:"session,omitempty"`
	Frame      int64               `json:"frame"`
	Timestamp  int64               `json:"timestamp"`
	Mode       render.Mode         `json:"mode"`
	Resolution geometry.Resolution `json:"resolution"`
	Hands      []HandResult        `json:"hands"`
}

// Process runs one frame through the estimator, renders the overlay,
// presents the rendered surface and notifies observers. A detector error
// is logged and the frame is presented without hands. Process does not
// close frame.
func (p *Pipeline) Process(frame *gocv.Mat) (*Result, error) {
	start := time.Now()
	p.frames++
	log := p.log.With(zap.Int64("frame", p.frames))

	if p.config.Flip {
		gocv.Flip(*frame, frame, 1)
	}

	detectStart := time.Now()
	hands, err := p.config.Detector.Detect(frame)
	metrics.FrameDuration.WithLabelValues("detect").Observe(time.Since(detectStart).Seconds())
	if err != nil {
		metrics.DetectionErrorsTotal.Inc()
		log.Warn("hand detection failed", zap.Error(err))
		hands = nil
	}

	target := frame
	if p.config.Mode != render.ModeDefault && p.config.Background == BackgroundBlank {
		blank := render.NewBlankMat(p.config.Resolution)
		defer blank.Close()
		target = &blank
	}
	canvas := render.MatCanvas{Mat: target}

	result := &Result{
		Session:    p.config.SessionID,
		Frame:      p.frames,
		Timestamp:  time.Now().UnixMilli(),
		Mode:       p.config.Mode,
		Resolution: canvas.Resolution(),
		Hands:      make([]HandResult, 0, len(hands)),
	}

	pixels := geometry.ProjectAll(hands, result.Resolution)
	for i := range hands {
		hr := HandResult{
			Handedness: hands[i].Handedness,
			Score:      hands[i].Score,
			Landmarks:  pixels[i],
			FingersUp:  gesture.FingersUp(pixels[i]),
			InFrame:    hands[i].InFrame(),
		}
		if !hr.InFrame {
			log.Debug("hand landmarks outside frame", zap.Int("hand", i))
		}
		result.Hands = append(result.Hands, hr)
	}

	p.draw(canvas, pixels)

	for _, pr := range p.config.Presenters {
		if err := pr.Present(target); err != nil {
			return result, fmt.Errorf("present frame %d: %w", p.frames, err)
		}
	}
	for _, o := range p.config.Observers {
		o.ObserveResult(result)
	}

	record(result)
	metrics.FrameDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	log.Debug("frame processed", zap.Int("hands", len(result.Hands)))

	return result, nil
}

func (p *Pipeline) draw(canvas render.MatCanvas, hands []geometry.PixelHand) {
	switch p.config.Mode {
	case render.ModeCustom:
		skeleton.Draw(canvas, hands, p.config.Style)
	case render.ModeDefault:
		for _, h := range hands {
			skeleton.DrawDefault(canvas, h, skeleton.DefaultConnectionStyle)
		}
	}
}

func record(r *Result) {
	metrics.FramesProcessedTotal.Inc()
	metrics.HandsInFrame.Set(float64(len(r.Hands)))
	for _, h := range r.Hands {
		handedness := h.Handedness
		if handedness == "" {
			handedness = "unknown"
		}
		metrics.HandsDetectedTotal.WithLabelValues(handedness).Inc()
		if !h.InFrame {
			metrics.OffCanvasHandsTotal.Inc()
		}
		for _, f := range h.FingersUp.Fingers() {
			metrics.FingersUpTotal.WithLabelValues(skeleton.Finger(f).String()).Inc()
		}
	}
}
