package feed

// View is the capability set that specializes a Controller to one view kind.
// A View's methods are only ever invoked from its Controller's event loop,
// but its reduced state may be read from other goroutines, so implementations
// guard their state themselves.
type View interface {
	// Kind names the view for logs ("table", "detail").
	Kind() string

	// Endpoint builds the channel target from the configured base endpoint.
	// The subscription parameter set is baked into the target: a channel
	// serves exactly one identity for its lifetime.
	Endpoint(base string) string

	// Apply decodes one inbound message and folds it into the view's state.
	// A *model.DecodeError return means the message was malformed; the
	// controller logs and discards it without touching the connection.
	Apply(raw []byte) error

	// OnOpen is invoked once per successful connect with a sender bound to
	// the fresh channel, for the view's initial request (if any).
	OnOpen(send func(v any) error)
}
