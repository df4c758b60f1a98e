// Command hilbertinfo prints the coefficient sets of the quadrature Hilbert
// filter and their measured sideband rejection.
//
// Usage:
//
//	hilbertinfo [flags] [preset-name ...]
//
// Without arguments it prints every built-in preset.
//
// Examples:
//
//	hilbertinfo kaiser
//	hilbertinfo --freq 0.05,0.1,0.25 rectangular
//	hilbertinfo --kaiser-beta 6
//	hilbertinfo --list
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-iqdemod/dsp/filter/hilbert"
	"github.com/cwbudde/algo-iqdemod/measure/sideband"
)

type entry struct {
	name   string
	coeffs hilbert.Coefficients
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("hilbertinfo", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	freqs := fs.Float64Slice("freq", []float64{0.02, 0.05, 0.1, 0.15, 0.2, 0.25}, "normalized test frequencies (cycles per sample)")
	beta := fs.Float64("kaiser-beta", math.NaN(), "also design and measure a Kaiser set with this beta")
	amplitude := fs.Int("amplitude", 8000, "test tone amplitude")
	fftSize := fs.Int("fft-size", 4096, "analysis FFT size (power of two)")
	list := fs.Bool("list", false, "list preset names")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: hilbertinfo [flags] [preset-name ...]\n\n")
		_, _ = fmt.Fprintf(stderr, "Prints Hilbert coefficient sets and their sideband rejection.\n\n")
		_, _ = fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if *list {
		for _, p := range []hilbert.Preset{hilbert.PresetKaiser, hilbert.PresetRectangular} {
			_, _ = fmt.Fprintln(stdout, p)
		}
		return 0
	}

	entries, err := resolveEntries(fs.Args(), *beta)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	analyzer, err := sideband.NewAnalyzer(sideband.Config{FFTSize: *fftSize})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if err := printCoefficients(stdout, entries); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if err := printResponse(stdout, analyzer, entries, *freqs, *amplitude); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func resolveEntries(names []string, beta float64) ([]entry, error) {
	if len(names) == 0 {
		names = []string{hilbert.PresetKaiser.String(), hilbert.PresetRectangular.String()}
	}

	var result []entry
	for _, name := range names {
		p, err := hilbert.ParsePreset(name)
		if err != nil {
			return nil, err
		}

		c, err := hilbert.PresetCoefficients(p)
		if err != nil {
			return nil, err
		}
		result = append(result, entry{name: p.String(), coeffs: c})
	}

	if !math.IsNaN(beta) {
		c, err := hilbert.DesignKaiser(beta)
		if err != nil {
			return nil, err
		}
		result = append(result, entry{name: fmt.Sprintf("kaiser(b=%.2f)", beta), coeffs: c})
	}

	return result, nil
}

func printCoefficients(w io.Writer, entries []entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Set\tQ15 taps (outer to center)\n---\t--------------------------\n"); err != nil {
		return err
	}

	for _, e := range entries {
		taps := make([]string, len(e.coeffs))
		for i, k := range e.coeffs {
			taps[i] = fmt.Sprint(k)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", e.name, strings.Join(taps, " ")); err != nil {
			return err
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)

	return err
}

func printResponse(w io.Writer, a *sideband.Analyzer, entries []entry, freqs []float64, amplitude int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Set\tFreq\tGain\tUpper\tLower\tRejection [dB]\n----\t----\t----\t-----\t-----\t--------------\n"); err != nil {
		return err
	}

	for _, e := range entries {
		results, err := a.Sweep(e.coeffs, freqs, amplitude)
		if err != nil {
			return err
		}

		for _, r := range results {
			if _, err := fmt.Fprintf(tw, "%s\t%.4f\t%.5f\t%.1f\t%.1f\t%.1f\n",
				e.name, r.Freq, e.coeffs.Gain(r.Freq), r.Upper, r.Lower, r.RejectionDB); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}
