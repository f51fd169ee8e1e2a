package stun

import (
	"encoding/binary"
	"net"
)

const (
	familyIPv4 byte = 0x01
	familyIPv6 byte = 0x02
)

// encodePlainAddress writes the MAPPED-ADDRESS/ALTERNATE-SERVER wire format:
// a reserved byte, family, port, and raw address bytes (RFC 5389 section
// 15.1).
func encodePlainAddress(addr *net.UDPAddr) ([]byte, error) {
	if addr == nil {
		return nil, ErrValueOutOfRange
	}
	if ip4 := addr.IP.To4(); ip4 != nil {
		buf := make([]byte, 8)
		buf[1] = familyIPv4
		binary.BigEndian.PutUint16(buf[2:4], uint16(addr.Port))
		copy(buf[4:8], ip4)
		return buf, nil
	}
	ip16 := addr.IP.To16()
	if ip16 == nil {
		return nil, ErrValueOutOfRange
	}
	buf := make([]byte, 20)
	buf[1] = familyIPv6
	binary.BigEndian.PutUint16(buf[2:4], uint16(addr.Port))
	copy(buf[4:20], ip16)
	return buf, nil
}

func decodePlainAddress(v []byte) (*net.UDPAddr, error) {
	if len(v) < 4 {
		return nil, ErrBadAttributeLength
	}
	family := v[1]
	port := binary.BigEndian.Uint16(v[2:4])
	switch family {
	case familyIPv4:
		if len(v) != 8 {
			return nil, ErrBadAttributeLength
		}
		ip := make(net.IP, 4)
		copy(ip, v[4:8])
		return &net.UDPAddr{IP: ip, Port: int(port)}, nil
	case familyIPv6:
		if len(v) != 20 {
			return nil, ErrBadAttributeLength
		}
		ip := make(net.IP, 16)
		copy(ip, v[4:20])
		return &net.UDPAddr{IP: ip, Port: int(port)}, nil
	default:
		return nil, ErrValueOutOfRange
	}
}

// encodeXorAddress writes XOR-MAPPED-ADDRESS: the same layout as a plain
// address, with the port XOR'd against the top 16 bits of the magic cookie
// and the address bytes XOR'd against cookie||transactionID (RFC 5389
// section 15.2).
func encodeXorAddress(addr *net.UDPAddr, txID []byte) ([]byte, error) {
	plain, err := encodePlainAddress(addr)
	if err != nil {
		return nil, err
	}
	return xorAddressBytes(plain, txID), nil
}

func decodeXorAddress(v []byte, txID []byte) (*net.UDPAddr, error) {
	return decodePlainAddress(xorAddressBytes(v, txID))
}

// xorAddressBytes returns a new slice with the port and address fields of a
// MAPPED-ADDRESS-shaped value XOR'd against cookie||transactionID. Applying
// it twice recovers the original value, so it is used for both directions.
func xorAddressBytes(v []byte, txID []byte) []byte {
	out := append([]byte(nil), v...)
	if len(out) < 4 {
		return out
	}
	var cookieBytes [4]byte
	binary.BigEndian.PutUint32(cookieBytes[:], magicCookie)

	out[2] ^= cookieBytes[0]
	out[3] ^= cookieBytes[1]

	key := append(append([]byte(nil), cookieBytes[:]...), txID...)
	for i := 4; i < len(out) && i-4 < len(key); i++ {
		out[i] ^= key[i-4]
	}
	return out
}
