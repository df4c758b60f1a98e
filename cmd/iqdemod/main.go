// Command iqdemod demodulates quadrature audio.
//
// In file mode it reads interleaved little-endian int16 I/Q pairs (or mono
// I samples with --single-rail) and writes the demodulated audio as mono
// little-endian int16. In --live mode it captures I/Q from the default
// stereo input device and plays the result on the default output.
//
// In report mode no audio is produced; the decimated magnitude/phase pairs
// are written to a CSV file whose name is a strftime pattern.
//
// Examples:
//
//	iqdemod --mode am -i capture.iq -o audio.raw
//	iqdemod --mode usb --estimator exact < capture.iq > audio.raw
//	iqdemod --mode report --report 'report-%Y%m%d.csv' -i capture.iq
//	iqdemod --config iqdemod.yaml --live
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-iqdemod/dsp/demod"
	"github.com/cwbudde/algo-iqdemod/internal/config"
)

type options struct {
	configPath  string
	input       string
	output      string
	live        bool
	printConfig bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, opts, err := parseArgs(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "iqdemod: %v\n", err)
		return 2
	}

	logger := log.NewWithOptions(stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "iqdemod",
		Level:           cfg.Level(),
	})

	if opts.printConfig {
		data, err := cfg.Marshal()
		if err != nil {
			logger.Error("encode config", "err", err)
			return 1
		}
		_, _ = stdout.Write(data)
		return 0
	}

	mode, pipelineOpts, err := cfg.Pipeline(logger)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return 1
	}

	p, err := demod.New(pipelineOpts...)
	if err != nil {
		logger.Error("create pipeline", "err", err)
		return 1
	}
	if err := p.SetMode(mode); err != nil {
		logger.Error("set mode", "err", err)
		return 1
	}

	logger.Info("pipeline ready",
		"mode", mode,
		"estimator", p.Estimator(),
		"rate", p.SampleRate(),
		"block", p.BlockSize(),
		"decimation", p.Decimation(),
		"quarter_turn", p.QuarterTurn(),
	)

	if opts.live {
		err = runLive(ctx, cfg, p, stdin, logger)
	} else {
		err = runFile(ctx, cfg, opts, p, stdin, stdout, logger)
	}
	if err != nil {
		logger.Error("demodulation failed", "err", err)
		return 1
	}

	return 0
}

// parseArgs loads the optional config file and applies the flags that were
// set on the command line over it.
func parseArgs(args []string, stderr io.Writer) (config.Config, options, error) {
	var opts options

	def := config.Default()
	fs := pflag.NewFlagSet("iqdemod", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&opts.input, "input", "i", "-", "input file of interleaved s16le I/Q ('-' for stdin)")
	fs.StringVarP(&opts.output, "output", "o", "-", "output file of s16le audio ('-' for stdout)")
	fs.BoolVar(&opts.live, "live", false, "capture and play through the default PortAudio devices")
	fs.BoolVar(&opts.printConfig, "print-config", false, "print the effective configuration and exit")

	mode := fs.StringP("mode", "m", def.Mode, "idle, am, usb, lsb or report")
	estimator := fs.StringP("estimator", "e", def.Estimator, "magnitude estimator: fast, refined or exact")
	preset := fs.String("preset", def.Preset, "Hilbert coefficient set: kaiser or rectangular")
	rate := fs.IntP("sample-rate", "r", def.SampleRate, "input sample rate in Hz")
	block := fs.IntP("block-size", "b", def.BlockSize, "block size (power of two)")
	decimation := fs.IntP("decimation", "D", def.Decimation, "report decimation ratio")
	outputDecimation := fs.Int("output-decimation", def.OutputDecimation, "envelope decimation ratio")
	fill := fs.String("fill", def.Fill, "envelope fill between decimated samples: zero or hold")
	smooth := fs.Int("smooth-taps", def.SmoothTaps, "low-pass taps applied to a decimated envelope (0 disables)")
	singleRail := fs.Bool("single-rail", def.SingleRail, "read only the I rail and synthesize Q")
	quarterTurn := fs.Int32("quarter-turn", def.QuarterTurn, "phase units per quarter turn (0 derives it from rate and decimation)")
	logLevel := fs.String("log-level", def.LogLevel, "debug, info, warn or error")
	report := fs.String("report", def.Report.Pattern, "strftime pattern of the report CSV file ('' disables)")
	interval := fs.Duration("report-interval", def.Report.Interval, "report polling interval in live mode")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: iqdemod [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	cfg := def
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, opts, err
		}
		cfg = loaded
	}

	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("mode", func() { cfg.Mode = *mode })
	set("estimator", func() { cfg.Estimator = *estimator })
	set("preset", func() { cfg.Preset = *preset })
	set("sample-rate", func() { cfg.SampleRate = *rate })
	set("block-size", func() { cfg.BlockSize = *block })
	set("decimation", func() { cfg.Decimation = *decimation })
	set("output-decimation", func() { cfg.OutputDecimation = *outputDecimation })
	set("fill", func() { cfg.Fill = *fill })
	set("smooth-taps", func() { cfg.SmoothTaps = *smooth })
	set("single-rail", func() { cfg.SingleRail = *singleRail })
	set("quarter-turn", func() { cfg.QuarterTurn = *quarterTurn })
	set("log-level", func() { cfg.LogLevel = *logLevel })
	set("report", func() { cfg.Report.Pattern = *report })
	set("report-interval", func() { cfg.Report.Interval = *interval })

	if err := cfg.Validate(); err != nil {
		return config.Config{}, opts, err
	}

	return cfg, opts, nil
}
