package stun

import "unicode/utf8"

// encodeErrorCode writes the ERROR-CODE attribute: two reserved bytes, a
// class/number pair encoding code = 100*class + number, and a UTF-8 reason
// phrase (RFC 5389 section 15.6). An empty reason is replaced by the
// default phrase for code, if one is registered.
func encodeErrorCode(code int, reason string) ([]byte, error) {
	if code < 300 || code > 699 {
		return nil, ErrValueOutOfRange
	}
	if reason == "" {
		if phrase, ok := defaultReasonPhrases[code]; ok {
			reason = phrase
		}
	}
	if utf8.RuneCountInString(reason) > 128 {
		return nil, ErrValueOutOfRange
	}
	reasonBytes := []byte(reason)
	if len(reasonBytes) > 763 {
		return nil, ErrValueOutOfRange
	}

	buf := make([]byte, 4+len(reasonBytes))
	buf[2] = byte(code / 100)
	buf[3] = byte(code % 100)
	copy(buf[4:], reasonBytes)
	return buf, nil
}

func decodeErrorCode(v []byte) (code int, reason string, err error) {
	if len(v) < 4 {
		return 0, "", ErrBadAttributeLength
	}
	class := int(v[2] & 0x07)
	number := int(v[3])
	if class < 3 || class > 6 || number > 99 {
		return 0, "", ErrValueOutOfRange
	}
	return class*100 + number, string(v[4:]), nil
}
