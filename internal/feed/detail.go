package feed

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tickerdash/feedclient/internal/model"
	"github.com/tickerdash/feedclient/internal/visibility"
)

// CandlePoint is one candle prepared for rendering, with the display-only
// price change derived at reduce time.
type CandlePoint struct {
	model.Candle
	PriceChange decimal.Decimal
}

// Detail binds one Controller to the candle series of a single symbol. The
// symbol is part of the channel's identity: switching symbols means tearing
// this view down and creating a fresh one, never reusing the channel.
type Detail struct {
	ctrl *Controller
	st   *detailState
}

// NewDetail creates a detail view for symbol.
func NewDetail(cfg Config, symbol string, vis *visibility.Watcher, logger *slog.Logger) *Detail {
	if logger == nil {
		logger = slog.Default()
	}
	st := &detailState{
		symbol: symbol,
		logger: logger.With("view", "detail", "symbol", symbol),
	}
	return &Detail{
		ctrl: NewController(cfg, st, vis, logger),
		st:   st,
	}
}

// Connect brings the channel up. Idempotent while connecting or open.
func (d *Detail) Connect() { d.ctrl.Connect() }

// Shutdown tears the view down terminally.
func (d *Detail) Shutdown() { d.ctrl.Shutdown() }

// Symbol returns the symbol this view is bound to.
func (d *Detail) Symbol() string { return d.st.symbol }

// Series returns the current candle series, sorted ascending by event time.
func (d *Detail) Series() []CandlePoint { return d.st.series() }

// Live reports whether the channel is currently open.
func (d *Detail) Live() bool { return d.ctrl.Live() }

// LastError returns the latest error text, empty after a successful open.
func (d *Detail) LastError() string { return d.ctrl.LastError() }

// State exposes the underlying lifecycle state.
func (d *Detail) State() State { return d.ctrl.State() }

// detailState is the detail view's View implementation.
type detailState struct {
	symbol string
	logger *slog.Logger

	mu      sync.Mutex
	candles []CandlePoint
}

func (s *detailState) Kind() string { return "detail" }

func (s *detailState) Endpoint(base string) string {
	return base + "/currency/" + s.symbol
}

// Apply replaces the whole series with the incoming batch, sorted ascending
// by event time. The server is authoritative for bucket identity, so no
// de-duplication or merge happens here. An empty batch is a benign no-op
// push, not an error.
func (s *detailState) Apply(raw []byte) error {
	batch, err := model.DecodeCandleBatch(raw)
	if err != nil {
		return err
	}

	if len(batch) == 0 {
		s.logger.Debug("empty candle batch, keeping current series")
		return nil
	}

	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].EventTime.Before(batch[j].EventTime)
	})

	points := make([]CandlePoint, len(batch))
	for i, c := range batch {
		points[i] = CandlePoint{Candle: c, PriceChange: c.PriceChange()}
	}

	s.mu.Lock()
	s.candles = points
	s.mu.Unlock()

	s.logger.Debug("candle batch applied", "candles", len(points))
	return nil
}

// OnOpen is a no-op: subscription is implied by the endpoint path and the
// server pushes without being asked.
func (s *detailState) OnOpen(send func(v any) error) {}

func (s *detailState) series() []CandlePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CandlePoint, len(s.candles))
	copy(out, s.candles)
	return out
}
