package stun

import "encoding/binary"

// encodeTiebreaker writes the 8-byte opaque value carried by ICE-CONTROLLED
// and ICE-CONTROLLING.
func encodeTiebreaker(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func decodeTiebreaker(v []byte) (uint64, error) {
	if len(v) != 8 {
		return 0, ErrBadAttributeLength
	}
	return binary.BigEndian.Uint64(v), nil
}
