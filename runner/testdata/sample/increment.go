// Package sample demonstrates how the runner discovers and runs tests.
//
// Run every Test function declared in the *_test.go files:
//
//	runt run ./sample
package sample

// Increment returns x plus one.
func Increment(x int) int {
	return x + 1
}
