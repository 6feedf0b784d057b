// Package analysis characterises integrator accuracy and system dynamics.
//
//   - [ObservedOrder]: convergence order from a log-log fit of error against step
//   - [GlobalError]: end-point error of a fixed-step run against a known state
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [PowerSpectrum], [DominantFrequency]: spectrum of a recorded series
//
// # Convergence
//
// Halving the step of an order-p scheme divides its global error by 2^p:
//
//	order, r2, err := analysis.ObservedOrder(dts, errs)
package analysis
