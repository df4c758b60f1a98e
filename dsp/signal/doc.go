// Package signal generates deterministic int16 quadrature test signals:
// complex tones, amplitude-modulated carriers and white noise. The
// measurement code and the iqgen tool use it to drive the demodulator.
package signal
