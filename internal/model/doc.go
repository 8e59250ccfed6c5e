// Package model defines shared data types used across the dashboard data service.
//
// Conventions:
//   - Values: decimal.Decimal, formatted copies kept alongside for display
//   - Timestamps: time.Time in UTC
//   - IDs: lowercase exchange identifiers for records, uuid.UUID for snapshots
package model
