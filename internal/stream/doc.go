// Package stream pushes synchronizer changes to browsers over WebSocket.
//
// The Hub:
//   - Upgrades /ws requests and greets each client with the current state
//   - Fans out every market.Change to all connected clients
//   - Pings clients and drops the ones that stop answering
package stream
