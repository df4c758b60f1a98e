package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/cwbudde/algo-iqdemod/dsp/decimate"
	"github.com/cwbudde/algo-iqdemod/dsp/demod"
)

// reportLogger appends the report entries published since its last poll to
// a CSV file. Entries overwritten before a poll are lost.
type reportLogger struct {
	file        *os.File
	w           *csv.Writer
	report      *decimate.ReportBuffer
	quarterTurn float64

	epoch uint64
	last  int
	rows  uint64
}

// errReportDecimation is returned by newReportLogger at decimation 1. Every
// block then rewrites the whole ring and the published position never moves,
// so a poller cannot tell which entries are new.
var errReportDecimation = errors.New("report log needs a decimation of at least 2")

func newReportLogger(pattern string, now time.Time, p *demod.Pipeline) (*reportLogger, error) {
	if p.Decimation() < 2 {
		return nil, errReportDecimation
	}

	name, err := strftime.Format(pattern, now)
	if err != nil {
		return nil, fmt.Errorf("report file pattern: %w", err)
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}

	r := &reportLogger{
		file:        f,
		w:           csv.NewWriter(f),
		report:      p.Report(),
		quarterTurn: float64(p.QuarterTurn()),
		epoch:       p.Report().Epoch(),
	}

	if err := r.w.Write([]string{"row", "epoch", "index", "magnitude", "phase", "degrees"}); err != nil {
		_ = f.Close()
		return nil, err
	}

	return r, nil
}

// Poll writes new entries and returns how many were written. Nothing is
// written until the report is available in the current epoch.
func (r *reportLogger) Poll() (int, error) {
	if !r.report.Available() {
		return 0, nil
	}

	if epoch := r.report.Epoch(); epoch != r.epoch {
		r.epoch = epoch
		r.last = 0
	}

	pos := r.report.Position()
	mask := r.report.Len() - 1

	n := 0
	for k := r.last; k != pos; k = (k + 1) & mask {
		phase := r.report.Phase(k)
		err := r.w.Write([]string{
			strconv.FormatUint(r.rows, 10),
			strconv.FormatUint(r.epoch, 10),
			strconv.Itoa(k),
			strconv.Itoa(int(r.report.Magnitude(k))),
			strconv.Itoa(int(phase)),
			strconv.FormatFloat(float64(phase)*90/r.quarterTurn, 'f', 2, 64),
		})
		if err != nil {
			return n, err
		}
		r.rows++
		n++
	}
	r.last = pos

	r.w.Flush()

	return n, r.w.Error()
}

// Rows returns the number of entries written.
func (r *reportLogger) Rows() uint64 {
	return r.rows
}

// Name returns the file name the pattern expanded to.
func (r *reportLogger) Name() string {
	return r.file.Name()
}

func (r *reportLogger) Close() error {
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		_ = r.file.Close()
		return err
	}

	return r.file.Close()
}
