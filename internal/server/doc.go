// Package server exposes the synchronizer over HTTP for the browser UI.
//
// Routes:
//
//	GET  /health                        liveness and component status
//	GET  /api/v1/status                 last known connectivity
//	POST /api/v1/status/check           run a connectivity probe now
//	GET  /api/v1/markets                filtered, sorted snapshot
//	GET  /api/v1/markets/options/:key   distinct values for a filter field
//	POST /api/v1/markets/refresh        ask the service to recollect data
//	POST /api/v1/auto-refresh/toggle    flip auto-refresh
//	GET  /ws                            change feed
//
// API responses use the envelope {"success", "error", "data"}.
package server
