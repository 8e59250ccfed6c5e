// Package probe implements the Connectivity Prober.
//
// The prober:
//   - Calls the status endpoint up to Config.Attempts times, one at a time
//   - Bounds every attempt with Config.Timeout
//   - Backs off linearly (BackoffStep × attempt) after transport failures only
//   - Reports a ConnectivityStatus plus an explicit fallback decision
//
// It never loads market data itself; the synchronizer acts on Result.Fallback.
package probe
