package impl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/strandmesh/strand/state"
)

var ErrTransportClosed = errors.New("transport closed")

// UDPTransport merges two ingress sources, the node's UDP socket and the
// local console, into a single line stream, and delivers outbound payloads
// as datagrams to neighbour ports on the same host.
type UDPTransport struct {
	host  string
	conn  *net.UDPConn
	log   *slog.Logger
	lines chan string
	done  chan struct{}
	once  sync.Once
}

func NewUDPTransport(host string, port uint16, console io.Reader, log *slog.Logger) (*UDPTransport, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(host), Port: int(port)}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}
	t := &UDPTransport{
		host:  host,
		conn:  conn,
		log:   log,
		lines: make(chan string, state.CommandQueueSize),
		done:  make(chan struct{}),
	}
	go t.readDatagrams()
	if console != nil {
		go t.readConsole(console)
	}
	return t, nil
}

func (t *UDPTransport) readDatagrams() {
	buf := make([]byte, state.DatagramSize)
	for {
		n, _, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-t.done:
			default:
				t.log.Warn("udp read failed", "err", err)
			}
			return
		}
		t.push(string(buf[:n]))
	}
}

func (t *UDPTransport) readConsole(console io.Reader) {
	scanner := bufio.NewScanner(console)
	for scanner.Scan() {
		t.push(scanner.Text())
	}
}

func (t *UDPTransport) push(line string) {
	select {
	case t.lines <- line:
	case <-t.done:
	}
}

func (t *UDPTransport) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-t.lines:
		return line, nil
	case <-t.done:
		return "", ErrTransportClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *UDPTransport) Send(port uint16, payload string) error {
	addr := &net.UDPAddr{IP: net.ParseIP(t.host), Port: int(port)}
	_, err := t.conn.WriteToUDP([]byte(payload), addr)
	if err != nil {
		return fmt.Errorf("send to %d: %w", port, err)
	}
	return nil
}

func (t *UDPTransport) Close() error {
	var err error
	t.once.Do(func() {
		close(t.done)
		err = t.conn.Close()
	})
	return err
}
