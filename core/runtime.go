package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/strandmesh/strand/protocol"
	"github.com/strandmesh/strand/state"
)

// Runtime ties together the three per-node duties: listening for inbound
// lines, periodically re-sending the cached broadcast payload, and
// serializing command execution against the routing state.
type Runtime struct {
	cfg state.NodeCfg
	log *slog.Logger
	out io.Writer

	tr       state.Transport
	pool     state.Pool
	activity state.Activity

	// mu guards rs: every read-modify-write during command execution and
	// every iteration over the table for serialization happens under it.
	mu sync.Mutex
	rs *state.RoutingState

	cmds chan *protocol.Command

	// cacheMu guards the last broadcast payload, written by the broadcast
	// trigger path and read by the periodic re-send loop.
	cacheMu sync.Mutex
	cached  string

	cancel context.CancelCauseFunc
}

func NewRuntime(cfg state.NodeCfg, log *slog.Logger, out io.Writer, tr state.Transport, pool state.Pool, activity state.Activity) *Runtime {
	return &Runtime{
		cfg:      cfg,
		log:      log,
		out:      out,
		tr:       tr,
		pool:     pool,
		activity: activity,
		rs:       state.NewRoutingState(cfg.Id, cfg.Neighbours),
		cmds:     make(chan *protocol.Command, state.CommandQueueSize),
	}
}

// Run executes the node until ctx is cancelled or a fatal protocol error
// occurs, and returns that error. A clean shutdown returns nil.
func (r *Runtime) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancelCause(ctx)
	r.cancel = cancel
	defer cancel(context.Canceled)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); r.listenLoop(ctx) }()
	go func() { defer wg.Done(); r.execLoop(ctx) }()
	go func() { defer wg.Done(); r.broadcastLoop(ctx) }()

	<-ctx.Done()
	// unblock the listener's pending read
	if err := r.tr.Close(); err != nil {
		r.log.Warn("transport close failed", "err", err)
	}
	wg.Wait()

	cause := context.Cause(ctx)
	if errors.Is(cause, context.Canceled) {
		return nil
	}
	return cause
}

// listenLoop reads inbound lines and enqueues parsed commands. A parse
// failure on one line never stops listening for the next one.
func (r *Runtime) listenLoop(ctx context.Context) {
	for {
		line, err := r.tr.ReadLine(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.log.Error("ingress closed", "err", err)
				r.cancel(err)
			}
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.log.Debug("recv", "line", line)
		cmd, err := protocol.Parse(line)
		if err != nil {
			r.log.Warn("dropping malformed line", "line", line, "err", err)
			continue
		}
		if cmd.Kind == protocol.Update && r.activity != nil {
			r.activity.Touch(cmd.Source)
		}
		select {
		case r.cmds <- cmd:
		case <-ctx.Done():
			return
		}
	}
}

// execLoop drains the command queue in arrival order, executing each command
// under the state lock and printing the resulting routing table.
func (r *Runtime) execLoop(ctx context.Context) {
	for {
		select {
		case cmd := <-r.cmds:
			r.mu.Lock()
			err := Exec(r.rs, r, cmd)
			if err == nil {
				PrintTable(r.rs, r)
			}
			r.mu.Unlock()
			if err != nil {
				r.log.Error("fatal protocol error", "err", err)
				r.cancel(err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// broadcastLoop waits the configured routing delay, prints the initial
// shortest-path table and announces this node's row, then re-sends the
// cached payload on the update interval. A failed node stops broadcasting
// because its neighbour set is empty while it is down, even though the
// payload stays cached.
func (r *Runtime) broadcastLoop(ctx context.Context) {
	select {
	case <-time.After(r.cfg.RoutingDelay):
	case <-ctx.Done():
		return
	}

	r.mu.Lock()
	PrintTable(r.rs, r)
	r.RouteChanged()
	r.mu.Unlock()

	interval := r.cfg.UpdateInterval
	if interval < state.MinUpdateInterval {
		interval = state.MinUpdateInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.resend()
		case <-ctx.Done():
			return
		}
	}
}

// Announce writes one exact console protocol line.
func (r *Runtime) Announce(line string) {
	fmt.Fprintln(r.out, line)
}

// RouteChanged regenerates this node's update payload, refreshes the cache
// and broadcasts it immediately, even when the payload is unchanged: a
// commanded mutation always announces itself. Echo storms are stopped on the
// receive side instead, where an update that does not change the sender's
// stored row never triggers this. Callers must hold the state lock.
func (r *Runtime) RouteChanged() {
	payload, ok := GenerateUpdate(r.rs, r.rs.Self)
	if !ok {
		return
	}
	neigh := Neighbours(r.rs)

	r.cacheMu.Lock()
	r.cached = payload
	r.cacheMu.Unlock()
	r.send(payload, neigh)
}

// resend pushes the cached payload to the current neighbour set.
func (r *Runtime) resend() {
	r.cacheMu.Lock()
	payload := r.cached
	r.cacheMu.Unlock()
	if payload == "" {
		return
	}
	r.mu.Lock()
	neigh := Neighbours(r.rs)
	r.mu.Unlock()
	if len(neigh) == 0 {
		return
	}
	r.send(payload, neigh)
}

// send fans the payload out to every neighbour. One send failing must not
// abort the rest; failures are logged and never retried.
func (r *Runtime) send(payload string, neigh state.Row) {
	if len(neigh) == 0 {
		return
	}
	r.Announce(payload)
	for id, edge := range neigh {
		id, port := id, edge.Port
		task := func() {
			if err := r.tr.Send(port, payload); err != nil {
				r.log.Warn("send failed", "to", id, "port", port, "err", err)
			}
		}
		if r.pool == nil || r.pool.Submit(task) != nil {
			task()
		}
	}
}
