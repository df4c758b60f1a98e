package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-iqdemod/dsp/demod"
	"github.com/cwbudde/algo-iqdemod/dsp/filter/fir"
	"github.com/cwbudde/algo-iqdemod/dsp/stream"
	"github.com/cwbudde/algo-iqdemod/internal/config"
	"github.com/cwbudde/algo-iqdemod/stats/level"
)

// runLive captures I/Q from the default stereo input (left = I,
// right = Q), or I alone from a mono input with single-rail, runs one
// pipeline block per PortAudio callback and plays the result on the default
// output. Mode names typed on stdin switch the mode.
func runLive(ctx context.Context, cfg config.Config, p *demod.Pipeline, stdin io.Reader, logger *log.Logger) error {
	if cfg.SingleRail && p.Mode().IsSideband() {
		return fmt.Errorf("%s needs both rails; single-rail input cannot be used", p.Mode())
	}
	if cfg.Live.FramesPerBuffer != 0 && cfg.Live.FramesPerBuffer != p.BlockSize() {
		return fmt.Errorf("frames per buffer %d must equal the block size %d", cfg.Live.FramesPerBuffer, p.BlockSize())
	}

	if cfg.Live.Mlock {
		if err := lockMemory(); err != nil {
			logger.Warn("memory not locked; page faults may cause dropouts", "err", err)
		}
	}

	smoother, err := cfg.Smoother()
	if err != nil {
		return err
	}

	e, err := newLiveEngine(p, max(cfg.Live.Queue, 1), smoother, cfg.SingleRail)
	if err != nil {
		return err
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	callback := func(in, out [][]int16) {
		e.process(in, out[0])
	}

	s, err := portaudio.OpenDefaultStream(e.channels(), 1, float64(p.SampleRate()), p.BlockSize(), callback)
	if err != nil {
		return fmt.Errorf("portaudio: open stream: %w", err)
	}
	defer func() { _ = s.Close() }()

	var (
		wg     sync.WaitGroup
		report *reportLogger
	)
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		wg.Wait()
		if report != nil {
			_ = report.Close()
		}
	}()

	if cfg.Report.Pattern != "" && cfg.Report.Interval > 0 {
		report, err = newReportLogger(cfg.Report.Pattern, time.Now(), p)
		switch {
		case errors.Is(err, errReportDecimation):
			logger.Warn("report log disabled", "err", err)
		case err != nil:
			return err
		default:
			logger.Info("writing report", "file", report.Name(), "interval", cfg.Report.Interval)

			wg.Add(1)
			go func() {
				defer wg.Done()
				pollReport(ctx, report, cfg.Report.Interval, logger)
			}()
		}
	}

	go readModes(ctx, stdin, p, cfg.SingleRail, logger)

	if err := s.Start(); err != nil {
		return fmt.Errorf("portaudio: start: %w", err)
	}
	logger.Info("streaming", "rate", p.SampleRate(), "block", p.BlockSize())

	<-ctx.Done()

	if err := s.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop: %w", err)
	}

	logger.Info("stopped",
		"overruns", e.overruns.Load(),
		"underruns", e.underruns.Load(),
		"clipped", e.clipped.Load(),
		"dropped", e.loop.Dropped(),
		"release_errors", e.loop.ReleaseErrors(),
	)

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}

	return ctx.Err()
}

func pollReport(ctx context.Context, r *reportLogger, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Poll(); err != nil {
				logger.Error("write report", "err", err)
				return
			}
		}
	}
}

// readModes switches the pipeline mode for every mode name read from r.
// Sideband modes are refused for single-rail input.
func readModes(ctx context.Context, r io.Reader, p *demod.Pipeline, singleRail bool, logger *log.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		m, err := demod.ParseMode(scanner.Text())
		if err != nil {
			logger.Warn("ignoring input", "err", err)
			continue
		}
		if singleRail && m.IsSideband() {
			logger.Warn("ignoring input", "mode", m, "err", "sideband needs both rails")
			continue
		}

		if err := p.SetMode(m); err != nil {
			logger.Warn("set mode", "err", err)
			continue
		}
		logger.Info("mode", "mode", m)
	}
}

// liveEngine is the body of the PortAudio callback: it queues one captured
// block, runs the pipeline once and copies any published block to out.
type liveEngine struct {
	p          *demod.Pipeline
	loop       *stream.Loop
	smoother   *fir.Filter
	singleRail bool

	overruns, underruns, clipped atomic.Uint64
}

func newLiveEngine(p *demod.Pipeline, queue int, smoother *fir.Filter, singleRail bool) (*liveEngine, error) {
	loop, err := stream.New(p.BlockSize(), queue)
	if err != nil {
		return nil, err
	}

	return &liveEngine{p: p, loop: loop, smoother: smoother, singleRail: singleRail}, nil
}

// channels is the number of input channels the engine reads.
func (e *liveEngine) channels() int {
	if e.singleRail {
		return 1
	}

	return 2
}

func (e *liveEngine) process(in [][]int16, out []int16) {
	var err error
	if e.singleRail {
		err = e.loop.SubmitRail(demod.RailI, in[0])
	} else {
		err = e.loop.Submit(in[0], in[1])
	}
	if err != nil {
		e.overruns.Add(1)
	}

	e.p.Update(e.loop)

	select {
	case b := <-e.loop.Output():
		copy(out, b.Samples())
		e.loop.Release(b)
		if e.smoother != nil && e.p.Mode() == demod.ModeEnvelope {
			e.smoother.ProcessBlock(out)
		}
		if c := level.Calculate(out).Clipped; c > 0 {
			e.clipped.Add(uint64(c))
		}
	default:
		clear(out)
		if m := e.p.Mode(); m != demod.ModeReport && m != demod.ModeIdle {
			e.underruns.Add(1)
		}
	}
}
