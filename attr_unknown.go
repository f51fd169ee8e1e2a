package stun

import "encoding/binary"

// encodeUnknownAttributes packs a list of attribute types as consecutive
// 16-bit big-endian values with no padding between entries (the whole
// attribute is padded to 4 bytes as usual by the caller).
func encodeUnknownAttributes(types []AttrType) []byte {
	buf := make([]byte, len(types)*2)
	for i, t := range types {
		binary.BigEndian.PutUint16(buf[i*2:i*2+2], uint16(t))
	}
	return buf
}

func decodeUnknownAttributes(v []byte) ([]AttrType, error) {
	if len(v)%2 != 0 {
		return nil, ErrBadAttributeLength
	}
	out := make([]AttrType, 0, len(v)/2)
	for i := 0; i < len(v); i += 2 {
		out = append(out, AttrType(binary.BigEndian.Uint16(v[i:i+2])))
	}
	return out, nil
}
