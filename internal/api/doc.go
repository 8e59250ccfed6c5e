// Package api provides the client for the African markets data service.
//
// REST endpoints (relative to the resolved base URL):
//   - GET  /status   reachability and diagnostics
//   - GET  /markets  current market list
//   - POST /refresh  ask the service to recollect data, same response as /markets
//
// Every failure is returned as an error that Classify maps to one of the
// kinds in ErrorKind, so callers can turn it into a connectivity message.
package api
