package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-iqdemod/dsp/demod"
	"github.com/cwbudde/algo-iqdemod/dsp/stream"
	"github.com/cwbudde/algo-iqdemod/internal/config"
	"github.com/cwbudde/algo-iqdemod/stats/level"
)

// frameReader splits raw s16le input into per-rail blocks.
type frameReader struct {
	r        io.Reader
	channels int
	raw      []byte
	i, q     []int16
}

func newFrameReader(r io.Reader, blockSize, channels int) *frameReader {
	return &frameReader{
		r:        r,
		channels: channels,
		raw:      make([]byte, 2*channels*blockSize),
		i:        make([]int16, blockSize),
		q:        make([]int16, blockSize),
	}
}

// Next reads one block. A short final block is zero padded; n is the
// number of complete sample frames read, 0 at end of input.
func (f *frameReader) Next() (i, q []int16, n int, err error) {
	read, err := io.ReadFull(f.r, f.raw)
	switch {
	case errors.Is(err, io.EOF):
		return nil, nil, 0, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		clear(f.raw[read:])
	case err != nil:
		return nil, nil, 0, err
	}

	n = read / (2 * f.channels)
	if n == 0 {
		return nil, nil, 0, nil
	}

	for k := range f.i {
		off := 2 * f.channels * k
		f.i[k] = int16(binary.LittleEndian.Uint16(f.raw[off:]))
		if f.channels == 2 {
			f.q[k] = int16(binary.LittleEndian.Uint16(f.raw[off+2:]))
		}
	}

	return f.i, f.q, n, nil
}

func writeSamples(w io.Writer, samples []int16, scratch []byte) error {
	buf := scratch[:2*len(samples)]
	for k, v := range samples {
		binary.LittleEndian.PutUint16(buf[2*k:], uint16(v))
	}

	_, err := w.Write(buf)

	return err
}

func runFile(ctx context.Context, cfg config.Config, opts options, p *demod.Pipeline, stdin io.Reader, stdout io.Writer, logger *log.Logger) error {
	mode := p.Mode()
	if cfg.SingleRail && mode.IsSideband() {
		return fmt.Errorf("%s needs both rails; single-rail input cannot be used", mode)
	}

	in, closeIn, err := openInput(opts.input, stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(opts.output, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	loop, err := stream.New(p.BlockSize(), 2)
	if err != nil {
		return err
	}

	smoother, err := cfg.Smoother()
	if err != nil {
		return err
	}
	if smoother != nil && mode != demod.ModeEnvelope {
		logger.Warn("smoothing only applies to the envelope", "mode", mode)
		smoother = nil
	}

	var meter level.Meter

	var report *reportLogger
	if mode == demod.ModeReport && cfg.Report.Pattern != "" {
		report, err = newReportLogger(cfg.Report.Pattern, time.Now(), p)
		if err != nil {
			return err
		}
		defer report.Close()

		logger.Info("writing report", "file", report.Name())
	}

	channels := 2
	if cfg.SingleRail {
		channels = 1
	}

	frames := newFrameReader(bufio.NewReader(in), p.BlockSize(), channels)
	w := bufio.NewWriter(out)
	scratch := make([]byte, 2*p.BlockSize())

	var blocks, samples int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		i, q, n, err := frames.Next()
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if n == 0 {
			break
		}

		if cfg.SingleRail {
			err = loop.SubmitRail(demod.RailI, i)
		} else {
			err = loop.Submit(i, q)
		}
		if err != nil {
			return fmt.Errorf("queue block %d: %w", blocks, err)
		}

		p.Update(loop)

		select {
		case b := <-loop.Output():
			audio := b.Samples()[:n]
			if smoother != nil {
				smoother.ProcessBlock(audio)
			}
			meter.Update(audio)

			err = writeSamples(w, audio, scratch)
			loop.Release(b)
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		default:
		}

		if report != nil {
			if _, err := report.Poll(); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		blocks++
		samples += n
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fields := []any{"blocks", blocks, "samples", samples, "dropped", loop.Dropped(), "outstanding", loop.Outstanding()}
	if report != nil {
		fields = append(fields, "report_rows", report.Rows())
	}
	if out := meter.Result(); out.Samples > 0 {
		fields = append(fields,
			"peak_dbfs", fmt.Sprintf("%.1f", out.PeakdBFS),
			"rms_dbfs", fmt.Sprintf("%.1f", out.RMSdBFS),
			"clipped", out.Clipped,
		)
	}
	logger.Info("done", fields...)

	return nil
}

func openInput(name string, stdin io.Reader) (io.Reader, func(), error) {
	if name == "" || name == "-" {
		return stdin, func() {}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { _ = f.Close() }, nil
}

func openOutput(name string, stdout io.Writer) (io.Writer, func(), error) {
	if name == "" || name == "-" {
		return stdout, func() {}, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { _ = f.Close() }, nil
}
