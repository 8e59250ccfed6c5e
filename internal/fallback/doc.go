// Package fallback holds the demo dataset installed whenever the market data
// service is unreachable or returns unusable data.
//
// The dataset ships inside the binary (markets.yaml, one headline index per
// exchange) and is never fetched.
package fallback
