package stun

import "unicode/utf8"

// encodeUTF8Attr validates s against a rune-count cap (0 disables the
// check) and a byte-length cap (0 disables the check) and returns its raw
// UTF-8 bytes.
func encodeUTF8Attr(s string, maxRunes, maxBytes int) ([]byte, error) {
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		return nil, ErrValueOutOfRange
	}
	b := []byte(s)
	if maxBytes > 0 && len(b) > maxBytes {
		return nil, ErrValueOutOfRange
	}
	return b, nil
}

func encodeUsername(s string) ([]byte, error) { return encodeUTF8Attr(s, 0, 513) }
func encodeRealm(s string) ([]byte, error)    { return encodeUTF8Attr(s, 128, 0) }
func encodeNonce(s string) ([]byte, error)    { return encodeUTF8Attr(s, 128, 0) }
func encodeSoftware(s string) ([]byte, error) { return encodeUTF8Attr(s, 128, 0) }
