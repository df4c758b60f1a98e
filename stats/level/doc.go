// Package level measures int16 sample streams against digital full scale:
// peak and RMS in dBFS, DC offset, crest factor, zero crossings and the
// number of samples sitting on the saturation rails.
package level
