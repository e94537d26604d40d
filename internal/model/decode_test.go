package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDecodePagePayload(t *testing.T) {
	raw := []byte(`{
		"data": [
			{"symbol": "BTCUSDT", "price": 64250.5, "volume": 1200000.75},
			{"symbol": "ETHUSDT", "price": 3120.01, "volume": 890000}
		],
		"total": 120,
		"page": 1,
		"per_page": 30
	}`)

	p, err := DecodePagePayload(raw)
	if err != nil {
		t.Fatalf("DecodePagePayload failed: %v", err)
	}

	if len(p.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(p.Rows))
	}
	if p.Rows[0].Symbol != "BTCUSDT" {
		t.Errorf("Rows[0].Symbol = %q, want BTCUSDT", p.Rows[0].Symbol)
	}
	if want := decimal.RequireFromString("64250.5"); !p.Rows[0].Price.Equal(want) {
		t.Errorf("Rows[0].Price = %s, want %s", p.Rows[0].Price, want)
	}
	if p.Total != 120 || p.Page != 1 || p.PerPage != 30 {
		t.Errorf("pagination = (%d, %d, %d), want (120, 1, 30)", p.Total, p.Page, p.PerPage)
	}
}

func TestDecodePagePayloadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"data": [`},
		{"wrong shape", `[1, 2, 3]`},
		{"zero page", `{"data": [], "total": 10, "page": 0, "per_page": 30}`},
		{"negative total", `{"data": [], "total": -1, "page": 1, "per_page": 30}`},
		{"rows exceed per_page", `{"data": [{"symbol":"A","price":1,"volume":1},{"symbol":"B","price":1,"volume":1}], "total": 2, "page": 1, "per_page": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePagePayload([]byte(tt.raw))
			if err == nil {
				t.Fatal("DecodePagePayload = nil error, want DecodeError")
			}
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Errorf("error type = %T, want *DecodeError", err)
			}
		})
	}
}

func TestDecodeCandleBatch(t *testing.T) {
	raw := []byte(`[
		{"event_time": "2024-06-01T12:00:00Z", "symbol": "ETHUSDT",
		 "open_price": 3100, "high_price": 3130.5, "low_price": 3090,
		 "close_price": 3120.25, "quote_volume": 5500000}
	]`)

	batch, err := DecodeCandleBatch(raw)
	if err != nil {
		t.Fatalf("DecodeCandleBatch failed: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("len(batch) = %d, want 1", len(batch))
	}

	c := batch[0]
	if want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC); !c.EventTime.Equal(want) {
		t.Errorf("EventTime = %v, want %v", c.EventTime, want)
	}
	if want := decimal.RequireFromString("20.25"); !c.PriceChange().Equal(want) {
		t.Errorf("PriceChange() = %s, want %s", c.PriceChange(), want)
	}
}

func TestDecodeCandleBatchEmpty(t *testing.T) {
	batch, err := DecodeCandleBatch([]byte(`[]`))
	if err != nil {
		t.Fatalf("DecodeCandleBatch failed: %v", err)
	}
	if len(batch) != 0 {
		t.Errorf("len(batch) = %d, want 0", len(batch))
	}
}

func TestDecodeCandleBatchRejectsMalformed(t *testing.T) {
	_, err := DecodeCandleBatch([]byte(`{"not": "an array"}`))
	if err == nil {
		t.Fatal("DecodeCandleBatch = nil error, want DecodeError")
	}
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Errorf("error type = %T, want *DecodeError", err)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{120, 30, 4},
		{121, 30, 5},
		{0, 30, 0},
		{29, 30, 1},
		{10, 0, 0},
	}

	for _, tt := range tests {
		p := PagePayload{Total: tt.total, PerPage: tt.perPage}
		if got := p.PageCount(); got != tt.want {
			t.Errorf("PageCount(total=%d, per_page=%d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}
