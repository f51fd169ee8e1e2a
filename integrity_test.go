package stun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIntegrityAndFingerprintOrdering(t *testing.T) {
	key := []byte("shared-secret")

	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.AddUsername("alice"))
	require.NoError(t, req.AddMessageIntegrity(key))
	require.NoError(t, req.AddFingerprint())

	encoded, err := req.Encode()
	require.NoError(t, err)

	resp, err := ParseResponse(encoded)
	require.NoError(t, err)

	require.NoError(t, VerifyMessageIntegrity(resp, key))
	require.NoError(t, VerifyFingerprint(resp))
}

func TestMessageIntegrityRejectsAfterFingerprint(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.AddFingerprint())

	err := req.AddMessageIntegrity([]byte("key"))
	assert.ErrorIs(t, err, ErrContextViolation)
}

func TestOnlyFingerprintAllowedAfterMessageIntegrity(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.AddMessageIntegrity([]byte("key")))

	err := req.AddSoftware("late")
	assert.ErrorIs(t, err, ErrContextViolation)

	require.NoError(t, req.AddFingerprint())
}

func TestVerifyMessageIntegrityDetectsTamper(t *testing.T) {
	key := []byte("shared-secret")
	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.AddUsername("alice"))
	require.NoError(t, req.AddMessageIntegrity(key))

	encoded, err := req.Encode()
	require.NoError(t, err)

	// Flip a bit in the USERNAME value, after the digest was computed.
	encoded[headerSize+4] ^= 0xFF

	resp, err := ParseResponse(encoded)
	require.NoError(t, err)

	err = VerifyMessageIntegrity(resp, key)
	assert.ErrorIs(t, err, ErrIntegrityMismatch)
}

func TestVerifyMessageIntegrityWrongKey(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.AddMessageIntegrity([]byte("correct-key")))

	encoded, err := req.Encode()
	require.NoError(t, err)

	resp, err := ParseResponse(encoded)
	require.NoError(t, err)

	err = VerifyMessageIntegrity(resp, []byte("wrong-key"))
	assert.ErrorIs(t, err, ErrIntegrityMismatch)
}

func TestVerifyFingerprintDetectsTamper(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.AddFingerprint())

	encoded, err := req.Encode()
	require.NoError(t, err)
	encoded[8] ^= 0xFF // corrupt a transaction id byte covered by the digest

	resp, err := ParseResponse(encoded)
	require.NoError(t, err)

	err = VerifyFingerprint(resp)
	assert.ErrorIs(t, err, ErrFingerprintMismatch)
}

func TestFingerprintFinalizesMessage(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	require.NoError(t, req.AddFingerprint())

	err := req.AddSoftware("too-late")
	assert.ErrorIs(t, err, ErrContextViolation)
}
