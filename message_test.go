package stun

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTypeValueRoundTrip(t *testing.T) {
	cases := []MessageType{
		BindingRequest,
		BindingIndication,
		BindingSuccess,
		BindingError,
		{Method: MethodAllocate, Class: ClassRequest},
		{Method: MethodChannelBind, Class: ClassSuccess},
	}
	for _, want := range cases {
		v := want.Value()
		var got MessageType
		got.ReadValue(v)
		assert.Equal(t, want, got, "round trip through Value/ReadValue")
	}
}

func TestBindingRequestEncode(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	txID := make([]byte, transactionIDSize)
	for i := range txID {
		txID[i] = byte(i + 1)
	}
	require.NoError(t, req.SetTransactionID(txID))

	encoded, err := req.Encode()
	require.NoError(t, err)
	require.Len(t, encoded, headerSize)

	assert.Equal(t, byte(0x00), encoded[0])
	assert.Equal(t, byte(0x01), encoded[1])
	assert.Equal(t, byte(0x00), encoded[2])
	assert.Equal(t, byte(0x00), encoded[3])
	assert.Equal(t, []byte{0x21, 0x12, 0xA4, 0x42}, encoded[4:8])
	assert.Equal(t, txID, encoded[8:headerSize])
}

func TestEncodeParseRoundTrip(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingSuccess)
	require.NoError(t, req.AddSoftware("test-agent"))
	addr := &net.UDPAddr{IP: net.ParseIP("203.0.113.5"), Port: 32853}
	require.NoError(t, req.AddXorMappedAddress(addr))

	encoded, err := req.Encode()
	require.NoError(t, err)

	resp, err := ParseResponse(encoded)
	require.NoError(t, err)
	assert.Equal(t, BindingSuccess, resp.Type)
	assert.False(t, resp.Legacy)

	software, ok := resp.Attributes.Get(AttrSoftware)
	require.True(t, ok)
	assert.Equal(t, "test-agent", string(software.Value))

	reflexive, err := resp.ReflexiveAddr()
	require.NoError(t, err)
	assert.Equal(t, addr.Port, reflexive.Port)
	assert.True(t, addr.IP.Equal(reflexive.IP))
}

func TestParseResponseTruncated(t *testing.T) {
	_, err := ParseResponse(make([]byte, 10))
	assert.ErrorIs(t, err, ErrTruncatedMessage)
}

func TestDuplicateAttributeRejected(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.AddSoftware("a"))
	err := req.AddSoftware("b")
	assert.ErrorIs(t, err, ErrDuplicateAttribute)
}

func TestErrorCodeOnlyOnErrorResponses(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	err := req.AddErrorCode(400, "")
	assert.ErrorIs(t, err, ErrContextViolation)
}

func TestIceAttributesOnlyOnBindingRequests(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingSuccess)
	err := req.AddIceControlling(1)
	assert.ErrorIs(t, err, ErrContextViolation)
}

func TestEncodeWithoutTypeFails(t *testing.T) {
	req := NewRequest()
	_, err := req.Encode()
	assert.ErrorIs(t, err, ErrTypeNotSet)
}
