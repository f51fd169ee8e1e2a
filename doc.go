// Package stun implements the Session Traversal Utilities for NAT (STUN) protocol
// as defined in RFC 5389, together with the attribute extensions used by ICE
// (RFC 8445) and the subset of a TURN-aware registry (RFC 5766) needed to
// encode and decode those messages without implementing TURN allocation
// state.
//
// STUN lets a client discover the transport address a NAT rewrites its
// packets to, which peer-to-peer protocols like WebRTC and VoIP need before
// they can punch a hole through the NAT.
//
// Key Features:
//   - Bit-exact message codec: header, attribute registry, XOR addressing
//   - MESSAGE-INTEGRITY (HMAC-SHA1) and FINGERPRINT (CRC-32) support
//   - Client with retransmission and a server with pluggable method handlers
//   - Structured logging with configurable levels
//
// Basic Usage:
//
//	client, err := stun.NewClient("stun.l.google.com:19302")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	req := stun.NewRequest()
//	req.SetType(stun.BindingRequest)
//	resp, err := client.Dial(ctx, stun.DialOptions{Message: req})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	addr, err := client.ReflexiveAddr(resp)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Public address: %s\n", addr)
//
// Server Usage:
//
//	server := stun.NewServer(stun.ServerConfig{
//		Addr:   "0.0.0.0",
//		Port:   "3478",
//		Logger: stun.NewDefaultLogger(),
//	})
//
//	if err := server.Listen(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//
// Logging:
//
//	// Development logging (text format)
//	logger := stun.NewLogger(stun.LoggerConfig{
//		Level:      stun.DebugLevel,
//		Format:     "text",
//		ShowCaller: true,
//	})
//
//	// Production logging (JSON format)
//	logger := stun.NewLogger(stun.LoggerConfig{
//		Level:      stun.InfoLevel,
//		Format:     "json",
//		ShowCaller: false,
//	})
//
// Building an arbitrary message:
//
//	req := stun.NewRequest()
//	req.SetType(stun.BindingRequest)
//	req.AddSoftware("my-app")
//	req.AddMessageIntegrity([]byte("secret"))
//	req.AddFingerprint()
//	raw, err := req.Encode()
//
// For more information about the STUN protocol, see RFC 5389:
// https://tools.ietf.org/html/rfc5389
package stun
