package stun

import (
	"context"
	"net"
)

// DialOptions configures a single request/response exchange performed by
// Client.Dial.
type DialOptions struct {
	// Message is the request to send. Its type must already be set; a
	// transaction id is generated if the caller hasn't set one.
	Message *Request

	// Transaction overrides the retransmission schedule. The zero value
	// uses the RFC 5389 defaults (500ms RTO, 7 sends, final wait 16*RTO).
	Transaction TransactionConfig
}

// Client performs STUN request/response exchanges against a single server
// address over UDP, using Engine to drive retransmission.
type Client struct {
	conn   *net.UDPConn
	engine *Engine
	logger *Logger
	server string
}

// NewClient dials serverAddr (host:port) over UDP and returns a Client ready
// to perform exchanges against it.
func NewClient(serverAddr string) (*Client, error) {
	return NewClientWithLogger(serverAddr, NewDefaultLogger())
}

// NewClientWithLogger is like NewClient but with an explicit logger.
func NewClientWithLogger(serverAddr string, logger *Logger) (*Client, error) {
	raddr, err := net.ResolveUDPAddr("udp", serverAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	transport := newUDPTransport(conn)
	return &Client{
		conn:   conn,
		engine: NewEngine(transport, systemClock{}, logger),
		logger: logger,
		server: serverAddr,
	}, nil
}

// Close releases the underlying UDP socket.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Dial sends opts.Message and returns the matched response, retransmitting
// per opts.Transaction until a response arrives, the schedule is exhausted
// (ErrTimeout), or ctx is cancelled (ErrCancelled).
func (c *Client) Dial(ctx context.Context, opts DialOptions) (*Response, error) {
	if opts.Message == nil {
		return nil, ErrTypeNotSet
	}
	resp, err := c.engine.RoundTrip(ctx, opts.Message, opts.Transaction)
	if err != nil {
		return nil, err
	}
	c.logger.LogClientResponse(c.server, resp.Type, nil)
	return resp, nil
}

// ReflexiveAddr is a convenience wrapper around Response.ReflexiveAddr.
func (c *Client) ReflexiveAddr(resp *Response) (*net.UDPAddr, error) {
	return resp.ReflexiveAddr()
}
