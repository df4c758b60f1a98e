// Package iq provides fixed-point magnitude and phase estimators for
// quadrature sample pairs.
//
// Magnitude estimation is a closed set of strategies ([Estimator]) trading
// accuracy for cycles:
//
//	strategy          formula                                 worst error
//	EstimatorFast     max*31/32 + min*3/8                     ~5%
//	EstimatorRefined  max if min <= max/4 else max*7/8+min/2  ~3.5%
//	EstimatorExact    isqrt(i*i + q*q)                        < 1 LSB
//
// Phase estimation uses a rational-polynomial arctangent on the ratio of the
// smaller to the larger magnitude with quadrant folding. Angles are expressed
// in integer units of a configurable quarter turn.
package iq
