package state

import "context"

// Transport is the ingress/egress boundary the runtime depends on. The UDP
// and in-memory implementations live outside the core.
type Transport interface {
	// ReadLine blocks until the next inbound line from any ingress (console
	// or network datagram) is available. It returns an error once the
	// transport is closed or the context is cancelled.
	ReadLine(ctx context.Context) (string, error)
	// Send delivers one payload to the neighbour listening on port.
	Send(port uint16, payload string) error
	Close() error
}

// Pool runs broadcast fan-out tasks. Submit may return an error when the
// pool is released; callers fall back to running the task inline.
type Pool interface {
	Submit(task func()) error
}

// Activity records that a neighbour was heard from.
type Activity interface {
	Touch(id NodeId)
}
