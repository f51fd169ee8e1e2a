package stun

import "encoding/binary"

// encodePriority writes the PRIORITY attribute: a big-endian 32-bit signed
// integer in [-2^31, 2^31-1].
func encodePriority(p int64) ([]byte, error) {
	if p < -(1<<31) || p > (1<<31-1) {
		return nil, ErrValueOutOfRange
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(int32(p)))
	return buf, nil
}

func decodePriority(v []byte) (int32, error) {
	if len(v) != 4 {
		return 0, ErrBadAttributeLength
	}
	return int32(binary.BigEndian.Uint32(v)), nil
}
