// Command iqgen writes deterministic quadrature test signals as
// interleaved s16le I/Q, the input format of iqdemod.
package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
	"github.com/cwbudde/algo-iqdemod/dsp/signal"
)

type options struct {
	output     string
	kind       string
	freq       float64
	modFreq    float64
	depth      float64
	amplitude  int
	frames     int
	rate       int
	seed       uint64
	singleRail bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "iqgen: %v\n", err)
		return 2
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "iqgen"})

	i, q, err := generate(opts)
	if err != nil {
		logger.Error("generate", "err", err)
		return 1
	}
	if opts.singleRail {
		q = nil
	}

	out := stdout
	if opts.output != "" && opts.output != "-" {
		f, err := os.Create(opts.output)
		if err != nil {
			logger.Error("create output", "err", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if err := write(out, i, q); err != nil {
		logger.Error("write output", "err", err)
		return 1
	}

	logger.Debug("done", "kind", opts.kind, "frames", opts.frames)

	return 0
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("iqgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.output, "output", "o", "-", "output file ('-' for stdout)")
	fs.StringVarP(&opts.kind, "kind", "k", "tone", "signal kind: tone, am or noise")
	fs.Float64VarP(&opts.freq, "freq", "f", 1000, "tone or carrier frequency in Hz; negative selects the lower sideband")
	fs.Float64Var(&opts.modFreq, "mod-freq", 100, "AM modulation frequency in Hz")
	fs.Float64Var(&opts.depth, "depth", 0.5, "AM modulation depth in [0, 1]")
	fs.IntVarP(&opts.amplitude, "amplitude", "a", 8000, "peak amplitude")
	fs.IntVarP(&opts.frames, "frames", "n", core.DefaultSampleRate, "number of frames")
	fs.IntVarP(&opts.rate, "sample-rate", "r", core.DefaultSampleRate, "sample rate in Hz")
	fs.Uint64Var(&opts.seed, "seed", 1, "noise seed")
	fs.BoolVar(&opts.singleRail, "single-rail", false, "write only the I rail")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: iqgen [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.rate <= 0 {
		return opts, fmt.Errorf("sample rate must be > 0: %d", opts.rate)
	}

	return opts, nil
}

func generate(opts options) (i, q []int16, err error) {
	g := signal.NewGenerator(
		[]core.ProcessorOption{core.WithSampleRate(opts.rate)},
		signal.WithSeed(opts.seed),
	)

	switch opts.kind {
	case "tone":
		return g.Quadrature(opts.freq, opts.amplitude, opts.frames)
	case "am":
		return g.AM(opts.freq, opts.modFreq, opts.depth, opts.amplitude, opts.frames)
	case "noise":
		if i, err = g.WhiteNoise(opts.amplitude, opts.frames); err != nil {
			return nil, nil, err
		}
		q, err = signal.NewGenerator(
			[]core.ProcessorOption{core.WithSampleRate(opts.rate)},
			signal.WithSeed(opts.seed+1),
		).WhiteNoise(opts.amplitude, opts.frames)

		return i, q, err
	default:
		return nil, nil, fmt.Errorf("unknown signal kind: %q", opts.kind)
	}
}

func write(w io.Writer, i, q []int16) error {
	bw := bufio.NewWriter(w)

	var frame [4]byte
	for k := range i {
		binary.LittleEndian.PutUint16(frame[0:], uint16(i[k]))
		n := 2
		if q != nil {
			binary.LittleEndian.PutUint16(frame[2:], uint16(q[k]))
			n = 4
		}
		if _, err := bw.Write(frame[:n]); err != nil {
			return err
		}
	}

	return bw.Flush()
}
