package state

import "time"

var (
	// CommandQueueSize bounds the listener -> executor channel.
	CommandQueueSize = 128

	// NeighbourSilentTTL is how long a neighbour may go without sending an
	// UPDATE before we log it as silent.
	NeighbourSilentTTL = time.Second * 30

	// FanoutWorkers is the size of the broadcast send pool.
	FanoutWorkers = 8

	// MinUpdateInterval is the floor for the periodic re-send timer; a
	// configured interval of 0 would otherwise spin.
	MinUpdateInterval = time.Millisecond

	DefaultListenHost = "127.0.0.1"

	// DatagramSize is the receive buffer for inbound UPDATE datagrams.
	DatagramSize = 4096
)
