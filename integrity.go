package stun

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // required by RFC 5389, not used for secrecy
	"encoding/binary"
	"hash/crc32"
)

const (
	messageIntegritySize = sha1.Size // 20
	fingerprintSize      = 4
)

// computeMessageIntegrity reserves a 20-byte placeholder for
// MESSAGE-INTEGRITY, serializes the message with it appended (so the
// header length field already accounts for it), and returns the HMAC-SHA1
// of every byte up to but not including the placeholder value.
func computeMessageIntegrity(typ MessageType, txID []byte, attrs Attributes, key []byte) ([]byte, error) {
	provisional := append(attrs.clone(), RawAttribute{
		Type:  AttrMessageIntegrity,
		Value: make([]byte, messageIntegritySize),
	})
	raw := encodeMessage(typ, magicCookie, txID, provisional)
	prefix := raw[:len(raw)-messageIntegritySize]

	mac := hmac.New(sha1.New, key)
	mac.Write(prefix) //nolint:errcheck // hash.Hash.Write never returns an error
	return mac.Sum(nil), nil
}

// computeFingerprint reserves a 4-byte placeholder for FINGERPRINT,
// serializes the message with it appended, and returns CRC32(prefix) XOR
// 0x5354554E where prefix is every byte up to but not including the
// placeholder value.
func computeFingerprint(typ MessageType, txID []byte, attrs Attributes) []byte {
	provisional := append(attrs.clone(), RawAttribute{
		Type:  AttrFingerprint,
		Value: make([]byte, fingerprintSize),
	})
	raw := encodeMessage(typ, magicCookie, txID, provisional)
	prefix := raw[:len(raw)-fingerprintSize]

	crc := crc32.ChecksumIEEE(prefix) ^ fingerprintXOR
	val := make([]byte, 4)
	val[0] = byte(crc >> 24)
	val[1] = byte(crc >> 16)
	val[2] = byte(crc >> 8)
	val[3] = byte(crc)
	return val
}

// VerifyMessageIntegrity recomputes the HMAC-SHA1 over the bytes of resp's
// original wire form preceding MESSAGE-INTEGRITY's value (including any
// attributes that followed it, which are thereby and correctly excluded
// from the digest per RFC 5389 invariant: attributes after
// MESSAGE-INTEGRITY are ignored by verifiers) and compares it against the
// attribute's value in constant time.
//
// Per RFC 5389 section 15.4, the header length field covered by the digest
// must be patched to the length the message would have had if
// MESSAGE-INTEGRITY were its last attribute, since that is what the sender
// hashed — even when FINGERPRINT (or, on the wire, anything else) follows
// it. resp.raw carries the message's actual final length, which differs
// whenever something was appended after MESSAGE-INTEGRITY, so a verbatim
// slice of resp.raw cannot be hashed directly.
func VerifyMessageIntegrity(resp *Response, key []byte) error {
	idx, attr, ok := findAttr(resp, AttrMessageIntegrity)
	if !ok {
		return ErrAttributeNotFound
	}
	if len(attr.Value) != messageIntegritySize {
		return ErrBadAttributeLength
	}
	headerOffset := resp.attrOffsets[idx]
	prefix := append([]byte(nil), resp.raw[:headerOffset+4]...)
	lengthThroughMI := headerOffset + 4 + messageIntegritySize - headerSize
	binary.BigEndian.PutUint16(prefix[2:4], uint16(lengthThroughMI))

	mac := hmac.New(sha1.New, key)
	mac.Write(prefix) //nolint:errcheck
	expected := mac.Sum(nil)

	if !hmac.Equal(expected, attr.Value) {
		return ErrIntegrityMismatch
	}
	return nil
}

// VerifyFingerprint recomputes CRC32 over the bytes of resp's original wire
// form preceding FINGERPRINT's value and compares it against the
// attribute's value. Unlike MESSAGE-INTEGRITY, no header length patch is
// needed: invariant 4 makes FINGERPRINT the last attribute on the wire, so
// resp.raw's actual length already equals the length the sender hashed.
func VerifyFingerprint(resp *Response) error {
	idx, attr, ok := findAttr(resp, AttrFingerprint)
	if !ok {
		return ErrAttributeNotFound
	}
	if len(attr.Value) != fingerprintSize {
		return ErrBadAttributeLength
	}
	headerOffset := resp.attrOffsets[idx]
	prefix := resp.raw[:headerOffset+4]

	crc := crc32.ChecksumIEEE(prefix) ^ fingerprintXOR
	expected := []byte{byte(crc >> 24), byte(crc >> 16), byte(crc >> 8), byte(crc)}

	for i := range expected {
		if expected[i] != attr.Value[i] {
			return ErrFingerprintMismatch
		}
	}
	return nil
}

func findAttr(resp *Response, t AttrType) (int, RawAttribute, bool) {
	for i, a := range resp.Attributes {
		if a.Type == t {
			return i, a, true
		}
	}
	return 0, RawAttribute{}, false
}
