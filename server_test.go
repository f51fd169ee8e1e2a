package stun

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownComprehensionRequired(t *testing.T) {
	attrs := Attributes{
		{Type: AttrUsername, Value: []byte("alice")},
		{Type: AttrType(0x7FFE), Value: []byte{1, 2, 3, 4}}, // comprehension-required, unregistered
		{Type: AttrType(0x8FFE), Value: []byte("agent")},    // comprehension-optional, unregistered is fine
	}
	unknown := unknownComprehensionRequired(attrs)
	require.Len(t, unknown, 1)
	assert.Equal(t, AttrType(0x7FFE), unknown[0])
}

func TestServerRejectsUnknownComprehensionRequired(t *testing.T) {
	srv := NewServer(ServerConfig{Addr: "127.0.0.1", Port: "0", Logger: NewDefaultLogger()})

	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.addRaw(AttrType(0x7FFE), []byte{0, 0, 0, 0}))
	encoded, err := req.Encode()
	require.NoError(t, err)

	parsed, err := ParseResponse(encoded)
	require.NoError(t, err)

	unknown := unknownComprehensionRequired(parsed.Attributes)
	require.Len(t, unknown, 1)

	resp := srv.buildUnknownAttributesResponse(parsed, unknown)
	typ, ok := resp.Type()
	require.True(t, ok)
	assert.Equal(t, ClassError, typ.Class)

	errAttr, ok := resp.Attributes().Get(AttrErrorCode)
	require.True(t, ok)
	code, _, err := decodeErrorCode(errAttr.Value)
	require.NoError(t, err)
	assert.Equal(t, 420, code)
}

func TestServerClientBindingEndToEnd(t *testing.T) {
	srv := NewServer(ServerConfig{Addr: "127.0.0.1", Port: "0", Logger: NewDefaultLogger()})

	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	port := listener.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, listener.Close())
	srv.port = strconv.Itoa(port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Listen(ctx) }()
	time.Sleep(50 * time.Millisecond) // let the listener bind

	client, err := NewClient(net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer client.Close()

	req := NewRequest()
	req.SetType(BindingRequest)

	callCtx, callCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer callCancel()
	resp, err := client.Dial(callCtx, DialOptions{Message: req})
	require.NoError(t, err)
	assert.Equal(t, BindingSuccess, resp.Type)

	reflexive, err := resp.ReflexiveAddr()
	require.NoError(t, err)
	assert.True(t, reflexive.IP.IsLoopback())
}
