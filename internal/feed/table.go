package feed

import (
	"log/slog"
	"sync"

	"github.com/tickerdash/feedclient/internal/model"
	"github.com/tickerdash/feedclient/internal/visibility"
)

// Table binds one Controller to the paginated ticker table. Its visible
// state is exactly the most recently received page; pushes never merge with
// prior pages.
type Table struct {
	ctrl *Controller
	st   *tableState
}

// NewTable creates a table view starting at the given page. Call Connect to
// bring the channel up and Shutdown when the view goes away.
func NewTable(cfg Config, page, perPage int, vis *visibility.Watcher, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	st := &tableState{
		logger:  logger.With("view", "table"),
		lastReq: model.PageRequest{Page: page, PerPage: perPage},
	}
	return &Table{
		ctrl: NewController(cfg, st, vis, logger),
		st:   st,
	}
}

// Connect brings the channel up. Idempotent while connecting or open.
func (t *Table) Connect() { t.ctrl.Connect() }

// Shutdown tears the view down terminally.
func (t *Table) Shutdown() { t.ctrl.Shutdown() }

// RequestPage records the page the user wants and sends it on the open
// channel. While the channel is down the request is not sent, but it becomes
// the initial request of the next successful connect.
func (t *Table) RequestPage(page, perPage int) {
	req := model.PageRequest{Page: page, PerPage: perPage}
	t.st.setLastRequest(req)
	t.ctrl.Request(req)
}

// Snapshot returns the latest received page.
func (t *Table) Snapshot() model.PagePayload { return t.st.snapshot() }

// Live reports whether the channel is currently open.
func (t *Table) Live() bool { return t.ctrl.Live() }

// LastError returns the latest error text, empty after a successful open.
func (t *Table) LastError() string { return t.ctrl.LastError() }

// State exposes the underlying lifecycle state.
func (t *Table) State() State { return t.ctrl.State() }

// tableState is the table's View implementation: decoder, reducer, and the
// remembered pagination request.
type tableState struct {
	logger *slog.Logger

	mu      sync.Mutex
	payload model.PagePayload
	lastReq model.PageRequest
}

func (s *tableState) Kind() string { return "table" }

func (s *tableState) Endpoint(base string) string { return base }

func (s *tableState) Apply(raw []byte) error {
	p, err := model.DecodePagePayload(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.payload = p
	s.mu.Unlock()

	s.logger.Debug("page applied",
		"page", p.Page,
		"rows", len(p.Rows),
		"total", p.Total,
	)
	return nil
}

func (s *tableState) OnOpen(send func(v any) error) {
	req := s.lastRequest()
	if err := send(req); err != nil {
		s.logger.Warn("initial page request failed", "error", err)
	}
}

func (s *tableState) snapshot() model.PagePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}

func (s *tableState) lastRequest() model.PageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReq
}

func (s *tableState) setLastRequest(req model.PageRequest) {
	s.mu.Lock()
	s.lastReq = req
	s.mu.Unlock()
}
