package stun

import (
	"context"
	"net"
	"time"
)

// HandlerFunc handles a single parsed request and returns the response to
// send back, or nil to send nothing (e.g. for indications, which get no
// reply per RFC 5389).
type HandlerFunc func(ctx context.Context, remoteAddr *net.UDPAddr, req *Response) (*Request, error)

// Server represents a STUN server that listens for requests from clients
// and dispatches them to a HandlerFunc. The default handler answers Binding
// requests with XOR-MAPPED-ADDRESS; callers may register their own handlers
// per method via Handle for Allocate/Refresh/Send/CreatePermission/
// ChannelBind or any other method.
//
// The server implements the core STUN protocol functionality:
//   - Listening for UDP datagrams
//   - Parsing incoming STUN messages
//   - Rejecting unknown comprehension-required attributes with 420
//   - Generating XOR-MAPPED-ADDRESS responses
//   - Handling multiple concurrent clients
//   - Comprehensive logging and error handling
type Server struct {
	addr    string
	port    string
	timeout time.Duration
	logger  *Logger

	handlers map[Method]HandlerFunc
}

// ServerConfig holds configuration options for creating a STUN server.
type ServerConfig struct {
	// Addr is the IP address to bind to (e.g., "127.0.0.1", "0.0.0.0")
	Addr string
	// Port is the port number to listen on (e.g., "3478")
	Port string
	// Timeout bounds how long a single ReadFromUDP may block.
	Timeout time.Duration
	// Logger is the logger instance to use for logging
	Logger *Logger
}

// NewServer creates a new STUN server with the specified configuration and
// a default Binding handler. If no logger is provided, a default logger
// will be used.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}

	s := &Server{
		addr:     cfg.Addr,
		port:     cfg.Port,
		timeout:  cfg.Timeout,
		logger:   logger,
		handlers: make(map[Method]HandlerFunc),
	}
	s.Handle(MethodBinding, s.handleBinding)
	return s
}

// Handle registers (or replaces) the handler for method. Passing nil
// removes the handler, causing requests of that method to receive a 400
// Bad Request error response with no UNKNOWN-ATTRIBUTES list.
func (s *Server) Handle(method Method, h HandlerFunc) {
	if h == nil {
		delete(s.handlers, method)
		return
	}
	s.handlers[method] = h
}

// Listen starts the STUN server and begins listening for incoming
// datagrams. It blocks until ctx is cancelled or a fatal socket error
// occurs.
func (s *Server) Listen(ctx context.Context) error {
	addr := net.JoinHostPort(s.addr, s.port)
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		s.logger.LogError("failed to resolve UDP address", err, map[string]interface{}{
			"address": addr,
		})
		return err
	}

	s.logger.Info("stun server starting", map[string]interface{}{
		"address": addr,
		"timeout": s.timeout.String(),
	})

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		s.logger.LogError("failed to listen on UDP address", err, map[string]interface{}{
			"address": addr,
		})
		return err
	}
	defer conn.Close()

	s.logger.LogConnection(conn.LocalAddr().String(), "", "stun_server")

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, MaxPacketSize)
	for {
		if s.timeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.timeout))
		}
		n, remoteAddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			s.logger.LogError("failed to read from UDP connection", err, nil)
			continue
		}
		s.handleDatagram(ctx, conn, remoteAddr, append([]byte(nil), buf[:n]...))
	}
}

func (s *Server) handleDatagram(ctx context.Context, conn *net.UDPConn, remoteAddr *net.UDPAddr, data []byte) {
	if !IsMessage(data, false) {
		return
	}
	req, err := ParseResponse(data)
	if err != nil {
		s.logger.LogError("failed to parse stun message", err, map[string]interface{}{
			"remote_addr": remoteAddr.String(),
		})
		return
	}

	var txID [transactionIDSize]byte
	copy(txID[:], req.TransactionID)
	s.logger.LogRequest(remoteAddr.String(), req.Type, txID)

	if unknown := unknownComprehensionRequired(req.Attributes); len(unknown) > 0 {
		s.logger.LogUnknownAttributes(remoteAddr.String(), unknown)
		s.respond(conn, remoteAddr, txID, req.Type, s.buildUnknownAttributesResponse(req, unknown))
		return
	}

	if req.Type.Class == ClassIndication {
		if h, ok := s.handlers[req.Type.Method]; ok {
			_, _ = h(ctx, remoteAddr, req)
		}
		return
	}

	h, ok := s.handlers[req.Type.Method]
	if !ok {
		s.respond(conn, remoteAddr, txID, req.Type, s.buildUnknownAttributesResponse(req, nil))
		return
	}

	resp, err := h(ctx, remoteAddr, req)
	if err != nil {
		s.logger.LogError("handler returned error", err, map[string]interface{}{
			"remote_addr": remoteAddr.String(),
		})
		return
	}
	s.respond(conn, remoteAddr, txID, req.Type, resp)
}

func (s *Server) respond(conn *net.UDPConn, remoteAddr *net.UDPAddr, txID [transactionIDSize]byte, reqType MessageType, resp *Request) {
	if resp == nil {
		return
	}
	content, err := resp.Encode()
	if err != nil {
		s.logger.LogError("failed to encode response", err, map[string]interface{}{
			"remote_addr": remoteAddr.String(),
		})
		return
	}
	respType, _ := resp.Type()
	s.logger.LogResponse(remoteAddr.String(), respType, txID)

	if _, err := conn.WriteToUDP(content, remoteAddr); err != nil {
		s.logger.LogError("failed to write response", err, map[string]interface{}{
			"remote_addr": remoteAddr.String(),
		})
	}
}

// unknownComprehensionRequired reports which comprehension-required
// attributes in attrs this package does not recognize.
func unknownComprehensionRequired(attrs Attributes) []AttrType {
	var unknown []AttrType
	for _, a := range attrs {
		if !a.Type.ComprehensionRequired() {
			continue
		}
		if _, ok := knownAttrTypes[a.Type]; !ok {
			unknown = append(unknown, a.Type)
		}
	}
	return unknown
}

// buildUnknownAttributesResponse builds a 420 (Unknown Attribute) error
// response. If types is empty, it is used for an unhandled method instead
// and carries a 400 Bad Request with no UNKNOWN-ATTRIBUTES list.
func (s *Server) buildUnknownAttributesResponse(req *Response, types []AttrType) *Request {
	resp := NewRequest()
	resp.SetType(MessageType{Method: req.Type.Method, Class: ClassError})
	_ = resp.SetTransactionID(req.TransactionID)

	if len(types) > 0 {
		_ = resp.AddErrorCode(420, "")
		_ = resp.AddUnknownAttributes(types)
	} else {
		_ = resp.AddErrorCode(400, "")
	}
	return resp
}

// handleBinding is the default Binding request handler: it answers with the
// remote address reflected back as XOR-MAPPED-ADDRESS.
func (s *Server) handleBinding(_ context.Context, remoteAddr *net.UDPAddr, req *Response) (*Request, error) {
	resp := NewRequest()
	resp.SetType(BindingSuccess)
	if err := resp.SetTransactionID(req.TransactionID); err != nil {
		return nil, err
	}
	if err := resp.AddXorMappedAddress(remoteAddr); err != nil {
		return nil, err
	}
	return resp, nil
}

// Shutdown logs the shutdown event. Callers should cancel the context
// passed to Listen to actually stop the server; Shutdown exists for
// symmetry with the logging the teacher repo performs on shutdown.
func (s *Server) Shutdown() error {
	s.logger.LogShutdown("stun_server", 0)
	return nil
}
