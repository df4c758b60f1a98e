// Package core provides the fixed-point arithmetic helpers and shared
// processing configuration used across the quadrature pipeline.
//
// All sample arithmetic is integer: 16-bit samples are widened to int32
// accumulators, Q15 products are scaled back with a 15-bit shift, and
// results are saturated to the symmetric range [-32767, 32767].
package core
