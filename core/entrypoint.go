package core

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"

	"github.com/strandmesh/strand/impl"
	"github.com/strandmesh/strand/state"
)

// Start brings up one node and blocks until shutdown. It owns the logging
// pipeline, transport and fan-out pool; the Runtime owns everything else.
func Start(cfg state.NodeCfg) error {
	log, closeLog, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	host := cfg.Local.ListenHost
	if host == "" {
		host = state.DefaultListenHost
	}
	tr, err := impl.NewUDPTransport(host, cfg.Port, os.Stdin, log)
	if err != nil {
		return state.Startupf("Error: failed to bind UDP port %d: %v", cfg.Port, err)
	}

	pool, err := impl.NewSendPool(state.FanoutWorkers)
	if err != nil {
		return state.Startupf("Error: failed to create send pool: %v", err)
	}
	defer pool.Release()

	activity := impl.NewActivityTracker(state.NeighbourSilentTTL, log)
	defer activity.Stop()

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(context.Canceled)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			log.Info("received shutdown signal")
			cancel(context.Canceled)
		case <-ctx.Done():
		}
	}()

	rt := NewRuntime(cfg, log, os.Stdout, tr, pool, activity)
	log.Info("node initialized", "id", cfg.Id, "port", cfg.Port, "neighbours", len(cfg.Neighbours))
	return rt.Run(ctx)
}

func buildLogger(cfg state.NodeCfg) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Local.Verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			TimeFormat:   "15:04:05",
			CustomPrefix: string(cfg.Id),
		}),
	}

	closeLog := func() {}
	if cfg.Local.LogPath != "" {
		if err := os.MkdirAll(path.Dir(cfg.Local.LogPath), 0700); err != nil {
			return nil, nil, state.Startupf("Error: failed to create log directory: %v", err)
		}
		f, err := os.OpenFile(cfg.Local.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, nil, state.Startupf("Error: failed to open log file: %v", err)
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		closeLog = func() { f.Close() }
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeLog, nil
}
