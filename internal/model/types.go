package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickerSnapshot is one row of the aggregate ticker table at the latest
// known instant. No history is retained; each page push fully replaces the
// previous set of in-view rows.
type TickerSnapshot struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

// PagePayload is one full page of ticker snapshots. The table view's visible
// state is exactly the most recently received PagePayload.
type PagePayload struct {
	Rows    []TickerSnapshot `json:"data"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// PageCount returns the total number of pages implied by Total and PerPage.
func (p PagePayload) PageCount() int {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// PageRequest is the outbound pagination message for the table channel.
type PageRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Candle is one OHLCV bucket for a symbol.
type Candle struct {
	EventTime   time.Time       `json:"event_time"`
	Symbol      string          `json:"symbol"`
	Open        decimal.Decimal `json:"open_price"`
	High        decimal.Decimal `json:"high_price"`
	Low         decimal.Decimal `json:"low_price"`
	Close       decimal.Decimal `json:"close_price"`
	QuoteVolume decimal.Decimal `json:"quote_volume"`
}

// PriceChange returns Close - Open. Display-only; not part of the wire format.
func (c Candle) PriceChange() decimal.Decimal {
	return c.Close.Sub(c.Open)
}
