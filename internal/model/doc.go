// Package model defines the wire types exchanged with the feed server and
// their decoders.
//
// Conventions:
//   - Prices and volumes: decimal.Decimal (JSON numbers on the wire)
//   - Candle timestamps: ISO-8601 strings, decoded to time.Time
//   - Pages: 1-based
package model
