// Package market implements the Market Data Synchronizer.
//
// The Synchronizer:
//   - Owns the current market snapshot and replaces it atomically
//   - Chooses between live data and the embedded demo dataset
//   - Runs the auto-refresh loop while auto-refresh is on and the API is reachable
//   - Notifies subscribers and snapshot handlers of every change
package market
