package stun

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainAddressRoundTripIPv4(t *testing.T) {
	addr := &net.UDPAddr{IP: net.ParseIP("198.51.100.7"), Port: 54321}
	v, err := encodePlainAddress(addr)
	require.NoError(t, err)
	assert.Len(t, v, 8)

	got, err := decodePlainAddress(v)
	require.NoError(t, err)
	assert.Equal(t, addr.Port, got.Port)
	assert.True(t, addr.IP.Equal(got.IP))
}

func TestPlainAddressRoundTripIPv6(t *testing.T) {
	addr := &net.UDPAddr{IP: net.ParseIP("2001:db8::1"), Port: 443}
	v, err := encodePlainAddress(addr)
	require.NoError(t, err)
	assert.Len(t, v, 20)

	got, err := decodePlainAddress(v)
	require.NoError(t, err)
	assert.Equal(t, addr.Port, got.Port)
	assert.True(t, addr.IP.Equal(got.IP))
}

func TestXorAddressRoundTrip(t *testing.T) {
	var txID [transactionIDSize]byte
	for i := range txID {
		txID[i] = byte(i * 3)
	}
	addr := &net.UDPAddr{IP: net.ParseIP("203.0.113.5"), Port: 32853}

	v, err := encodeXorAddress(addr, txID[:])
	require.NoError(t, err)

	got, err := decodeXorAddress(v, txID[:])
	require.NoError(t, err)
	assert.Equal(t, addr.Port, got.Port)
	assert.True(t, addr.IP.Equal(got.IP))
}

func TestEncodeUsernameLengthLimit(t *testing.T) {
	_, err := encodeUsername(strings.Repeat("a", 514))
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	v, err := encodeUsername(strings.Repeat("a", 513))
	require.NoError(t, err)
	assert.Len(t, v, 513)
}

func TestEncodeSoftwareRuneLimit(t *testing.T) {
	_, err := encodeSoftware(strings.Repeat("x", 129))
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestEncodeDecodePriority(t *testing.T) {
	v, err := encodePriority(126720)
	require.NoError(t, err)
	got, err := decodePriority(v)
	require.NoError(t, err)
	assert.EqualValues(t, 126720, got)
}

func TestEncodePriorityOutOfRange(t *testing.T) {
	_, err := encodePriority(1 << 33)
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestEncodeDecodeErrorCode(t *testing.T) {
	v, err := encodeErrorCode(420, "")
	require.NoError(t, err)
	code, reason, err := decodeErrorCode(v)
	require.NoError(t, err)
	assert.Equal(t, 420, code)
	assert.Equal(t, defaultReasonPhrases[420], reason)
}

func TestEncodeErrorCodeInvalidRange(t *testing.T) {
	_, err := encodeErrorCode(199, "")
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = encodeErrorCode(700, "")
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestEncodeDecodeUnknownAttributes(t *testing.T) {
	types := []AttrType{AttrPriority, AttrIceControlling}
	v := encodeUnknownAttributes(types)
	got, err := decodeUnknownAttributes(v)
	require.NoError(t, err)
	assert.Equal(t, types, got)
}

func TestTiebreakerRoundTrip(t *testing.T) {
	v := encodeTiebreaker(0x0102030405060708)
	got, err := decodeTiebreaker(v)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0102030405060708, got)
}

func TestTiebreakerWrongLength(t *testing.T) {
	_, err := decodeTiebreaker(make([]byte, 7))
	assert.ErrorIs(t, err, ErrBadAttributeLength)
}

func TestAttrTypeComprehensionRequired(t *testing.T) {
	assert.True(t, AttrUsername.ComprehensionRequired())
	assert.False(t, AttrSoftware.ComprehensionRequired())
}
