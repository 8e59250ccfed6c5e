// Package filter implements the record filter/sort engine used to build
// dashboard views over a market snapshot.
//
// Apply and UniqueValues are pure: they never modify their inputs and give
// the same output for the same input.
package filter
