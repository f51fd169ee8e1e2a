package stun

import (
	"context"
	"net"
	"time"
)

// Transport is the send/recv capability the transaction engine is built
// against. The only sockets this package opens are the client's (in
// NewClientWithLogger) and the server's (in Server.Listen); the UDP adapter
// below wraps the client's connected socket. Callers may supply their own
// implementation (e.g. a fake for tests).
type Transport interface {
	Send(ctx context.Context, b []byte) error
	Recv(ctx context.Context) (net.Addr, []byte, error)
}

// Timer abstracts a single scheduled wakeup so the transaction engine can
// be driven by a fake clock in tests.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Clock is the time capability the transaction engine is built against.
type Clock interface {
	NewTimer(d time.Duration) Timer
}

type systemClock struct{}

func (systemClock) NewTimer(d time.Duration) Timer {
	return &systemTimer{t: time.NewTimer(d)}
}

type systemTimer struct{ t *time.Timer }

func (s *systemTimer) C() <-chan time.Time { return s.t.C }
func (s *systemTimer) Stop() bool          { return s.t.Stop() }

// udpTransport adapts a connected *net.UDPConn (as produced by
// net.DialUDP) to the Transport interface for the client.
type udpTransport struct {
	conn *net.UDPConn
}

func newUDPTransport(conn *net.UDPConn) *udpTransport {
	return &udpTransport{conn: conn}
}

func (u *udpTransport) Send(_ context.Context, b []byte) error {
	_, err := u.conn.Write(b)
	return err
}

func (u *udpTransport) Recv(ctx context.Context) (net.Addr, []byte, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = u.conn.SetReadDeadline(deadline)
	} else {
		_ = u.conn.SetReadDeadline(time.Time{})
	}
	buf := make([]byte, MaxPacketSize)
	n, err := u.conn.Read(buf)
	if err != nil {
		return nil, nil, err
	}
	return u.conn.RemoteAddr(), buf[:n], nil
}
