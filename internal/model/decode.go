package model

import (
	"encoding/json"
	"fmt"
)

// DecodeError indicates a malformed inbound payload. It is fully local:
// callers log and discard the message without touching the connection.
type DecodeError struct {
	Kind string // "page" or "candles"
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s payload: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodePagePayload parses a table-channel message.
func DecodePagePayload(raw []byte) (PagePayload, error) {
	var p PagePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return PagePayload{}, &DecodeError{Kind: "page", Err: err}
	}
	if p.Page < 1 {
		return PagePayload{}, &DecodeError{Kind: "page", Err: fmt.Errorf("page %d out of range", p.Page)}
	}
	if p.Total < 0 {
		return PagePayload{}, &DecodeError{Kind: "page", Err: fmt.Errorf("negative total %d", p.Total)}
	}
	if p.PerPage >= 1 && len(p.Rows) > p.PerPage {
		return PagePayload{}, &DecodeError{Kind: "page", Err: fmt.Errorf("%d rows exceeds per_page %d", len(p.Rows), p.PerPage)}
	}
	return p, nil
}

// DecodeCandleBatch parses a detail-channel message. An empty batch decodes
// successfully; the reducer treats it as a no-op push.
func DecodeCandleBatch(raw []byte) ([]Candle, error) {
	var batch []Candle
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, &DecodeError{Kind: "candles", Err: err}
	}
	return batch, nil
}
