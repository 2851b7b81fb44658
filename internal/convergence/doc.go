// Package convergence estimates the empirical order of a composite
// quadrature rule and a Richardson-extrapolated integral.
//
// For each coarse count n the [Driver] compares h1 = I_n and h2 = I_2n
// against the exact value:
//
//	diff1 = exact - h1, diff2 = exact - h2
//	K     = |1 + (h2-h1)/diff2|       order estimate log2(K)
//	temp  = (h2-h1)/(K-1)             extrapolated value h2+temp
//
// Rows are emitted for every n even when K is within rounding of 1 and
// the derived fields are Inf or NaN.
//
// # Thread Safety
//
// A Driver is NOT thread-safe and neither is the Composite it drives. Use
// [RunParallel], which clones the Composite per goroutine.
package convergence
