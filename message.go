package stun

import (
	"crypto/rand"
	"encoding/binary"
	"net"
)

// Request is a mutable STUN message builder. It is frozen at the moment of
// encoding: Encode does not consume the builder, so callers may add more
// attributes and re-encode. Attribute uniqueness (RFC 5389 invariant: an
// attribute type appears at most once) and message-context preconditions
// (ERROR-CODE/UNKNOWN-ATTRIBUTES only on error responses, ICE-CONTROLLED/
// ICE-CONTROLLING only on Binding requests) are enforced on every Add* call.
type Request struct {
	typ     MessageType
	typeSet bool
	txID    [transactionIDSize]byte
	txIDSet bool
	attrs   Attributes
}

// NewRequest returns an empty builder. SetType must be called before Encode.
func NewRequest() *Request {
	return &Request{}
}

// Type returns the message type, if set.
func (r *Request) Type() (MessageType, bool) {
	return r.typ, r.typeSet
}

// Attributes returns the attributes added so far, in insertion order.
func (r *Request) Attributes() Attributes {
	return r.attrs.clone()
}

// SetType sets the message's method and class.
func (r *Request) SetType(t MessageType) {
	r.typ = t
	r.typeSet = true
}

// SetTransactionID sets the transaction id explicitly, accepting either a
// 12-byte (modern) or 16-byte (legacy, RFC 3489) id; any other length is
// rejected. Request always encodes the modern 12-byte-id-plus-magic-cookie
// wire format, so a 16-byte id has its leading 4 bytes (the legacy
// equivalent of the cookie) discarded, retaining the trailing 12 bytes.
// Callers that never call SetTransactionID get a random id generated at
// Encode time.
func (r *Request) SetTransactionID(id []byte) error {
	switch len(id) {
	case transactionIDSize:
		copy(r.txID[:], id)
	case legacyIDSize:
		copy(r.txID[:], id[legacyIDSize-transactionIDSize:])
	default:
		return ErrInvalidTransactionID
	}
	r.txIDSet = true
	return nil
}

// TransactionID returns the 12-byte transaction id, generating a random one
// via crypto/rand if none was set yet.
func (r *Request) TransactionID() ([transactionIDSize]byte, error) {
	if !r.txIDSet {
		if _, err := rand.Read(r.txID[:]); err != nil {
			return r.txID, err
		}
		r.txIDSet = true
	}
	return r.txID, nil
}

// Remove deletes the attribute of type t and returns it, if present.
func (r *Request) Remove(t AttrType) (RawAttribute, bool) {
	for i, attr := range r.attrs {
		if attr.Type == t {
			r.attrs = append(r.attrs[:i], r.attrs[i+1:]...)
			return attr, true
		}
	}
	return RawAttribute{}, false
}

// preAddCheck enforces invariant 4/5: once FINGERPRINT is present the
// message is finalized and nothing more may be added; once
// MESSAGE-INTEGRITY is present only FINGERPRINT may follow it.
func (r *Request) preAddCheck(t AttrType) error {
	if r.attrs.Has(AttrFingerprint) {
		return ErrContextViolation
	}
	if r.attrs.Has(AttrMessageIntegrity) && t != AttrFingerprint {
		return ErrContextViolation
	}
	return nil
}

func (r *Request) addRaw(t AttrType, v []byte) error {
	if err := r.preAddCheck(t); err != nil {
		return err
	}
	if r.attrs.Has(t) {
		return ErrDuplicateAttribute
	}
	r.attrs = append(r.attrs, RawAttribute{Type: t, Value: v})
	return nil
}

func (r *Request) checkErrorContext() error {
	if r.typ.Class != ClassError {
		return ErrContextViolation
	}
	return nil
}

func (r *Request) checkBindingRequestContext() error {
	if r.typ.Method != MethodBinding || r.typ.Class != ClassRequest {
		return ErrContextViolation
	}
	return nil
}

// AddMappedAddress adds a MAPPED-ADDRESS attribute.
func (r *Request) AddMappedAddress(addr *net.UDPAddr) error {
	v, err := encodePlainAddress(addr)
	if err != nil {
		return err
	}
	return r.addRaw(AttrMappedAddress, v)
}

// AddAlternateServer adds an ALTERNATE-SERVER attribute.
func (r *Request) AddAlternateServer(addr *net.UDPAddr) error {
	v, err := encodePlainAddress(addr)
	if err != nil {
		return err
	}
	return r.addRaw(AttrAlternateServer, v)
}

// AddXorMappedAddress adds an XOR-MAPPED-ADDRESS attribute, XOR'd against
// this message's transaction id (generated now if not already set).
func (r *Request) AddXorMappedAddress(addr *net.UDPAddr) error {
	txID, err := r.TransactionID()
	if err != nil {
		return err
	}
	v, err := encodeXorAddress(addr, txID[:])
	if err != nil {
		return err
	}
	return r.addRaw(AttrXorMappedAddress, v)
}

// AddUsername adds a USERNAME attribute (byte length <= 513).
func (r *Request) AddUsername(username string) error {
	v, err := encodeUsername(username)
	if err != nil {
		return err
	}
	return r.addRaw(AttrUsername, v)
}

// AddRealm adds a REALM attribute (<=128 code points).
func (r *Request) AddRealm(realm string) error {
	v, err := encodeRealm(realm)
	if err != nil {
		return err
	}
	return r.addRaw(AttrRealm, v)
}

// AddNonce adds a NONCE attribute (<=128 code points).
func (r *Request) AddNonce(nonce string) error {
	v, err := encodeNonce(nonce)
	if err != nil {
		return err
	}
	return r.addRaw(AttrNonce, v)
}

// AddSoftware adds a SOFTWARE attribute (<=128 code points).
func (r *Request) AddSoftware(software string) error {
	v, err := encodeSoftware(software)
	if err != nil {
		return err
	}
	return r.addRaw(AttrSoftware, v)
}

// AddPriority adds a PRIORITY attribute.
func (r *Request) AddPriority(priority int64) error {
	v, err := encodePriority(priority)
	if err != nil {
		return err
	}
	return r.addRaw(AttrPriority, v)
}

// AddUseCandidate adds an empty USE-CANDIDATE attribute. Valid only on
// Binding requests.
func (r *Request) AddUseCandidate() error {
	if err := r.checkBindingRequestContext(); err != nil {
		return err
	}
	return r.addRaw(AttrUseCandidate, []byte{})
}

// AddIceControlled adds an ICE-CONTROLLED attribute. Valid only on Binding
// requests.
func (r *Request) AddIceControlled(tiebreaker uint64) error {
	if err := r.checkBindingRequestContext(); err != nil {
		return err
	}
	return r.addRaw(AttrIceControlled, encodeTiebreaker(tiebreaker))
}

// AddIceControlling adds an ICE-CONTROLLING attribute. Valid only on
// Binding requests.
func (r *Request) AddIceControlling(tiebreaker uint64) error {
	if err := r.checkBindingRequestContext(); err != nil {
		return err
	}
	return r.addRaw(AttrIceControlling, encodeTiebreaker(tiebreaker))
}

// AddErrorCode adds an ERROR-CODE attribute. Valid only on error responses.
// An empty reason is replaced with the default phrase for code, if any.
func (r *Request) AddErrorCode(code int, reason string) error {
	if err := r.checkErrorContext(); err != nil {
		return err
	}
	v, err := encodeErrorCode(code, reason)
	if err != nil {
		return err
	}
	return r.addRaw(AttrErrorCode, v)
}

// AddUnknownAttributes adds an UNKNOWN-ATTRIBUTES attribute. Valid only on
// error responses.
func (r *Request) AddUnknownAttributes(types []AttrType) error {
	if err := r.checkErrorContext(); err != nil {
		return err
	}
	return r.addRaw(AttrUnknownAttributes, encodeUnknownAttributes(types))
}

// AddMessageIntegrity appends the MESSAGE-INTEGRITY attribute, computing
// the HMAC-SHA1 over the serialized message (header + every attribute
// added so far, with the header length field already reflecting this
// attribute) excluding the 20-byte value placeholder itself. See
// integrity.go.
func (r *Request) AddMessageIntegrity(key []byte) error {
	if err := r.preAddCheck(AttrMessageIntegrity); err != nil {
		return err
	}
	if r.attrs.Has(AttrMessageIntegrity) {
		return ErrDuplicateAttribute
	}
	if !r.typeSet {
		return ErrTypeNotSet
	}
	if _, err := r.TransactionID(); err != nil {
		return err
	}
	sum, err := computeMessageIntegrity(r.typ, r.txID[:], r.attrs, key)
	if err != nil {
		return err
	}
	r.attrs = append(r.attrs, RawAttribute{Type: AttrMessageIntegrity, Value: sum})
	return nil
}

// AddFingerprint appends the FINGERPRINT attribute, computing CRC-32 over
// every byte of the serialized message preceding the 4-byte value
// placeholder, XOR'd with 0x5354554E. Once present, no further attribute
// may be added (the message is finalized).
func (r *Request) AddFingerprint() error {
	if err := r.preAddCheck(AttrFingerprint); err != nil {
		return err
	}
	if r.attrs.Has(AttrFingerprint) {
		return ErrDuplicateAttribute
	}
	if !r.typeSet {
		return ErrTypeNotSet
	}
	if _, err := r.TransactionID(); err != nil {
		return err
	}
	val := computeFingerprint(r.typ, r.txID[:], r.attrs)
	r.attrs = append(r.attrs, RawAttribute{Type: AttrFingerprint, Value: val})
	return nil
}

// Encode serializes the message. It requires SetType to have been called;
// if no transaction id was set, a random one is generated and retained.
func (r *Request) Encode() ([]byte, error) {
	if !r.typeSet {
		return nil, ErrTypeNotSet
	}
	if _, err := r.TransactionID(); err != nil {
		return nil, err
	}
	return encodeMessage(r.typ, magicCookie, r.txID[:], r.attrs), nil
}

// encodeMessage serializes a 20-byte header followed by the TLV-encoded
// attribute stream.
func encodeMessage(typ MessageType, cookie uint32, txID []byte, attrs Attributes) []byte {
	body := attrs.encodedLen()
	buf := make([]byte, headerSize+body)

	binary.BigEndian.PutUint16(buf[0:2], typ.Value())
	binary.BigEndian.PutUint16(buf[2:4], uint16(body))
	binary.BigEndian.PutUint32(buf[4:8], cookie)
	copy(buf[8:headerSize], txID)

	offset := headerSize
	for _, attr := range attrs {
		binary.BigEndian.PutUint16(buf[offset:offset+2], uint16(attr.Type))
		binary.BigEndian.PutUint16(buf[offset+2:offset+4], uint16(len(attr.Value)))
		copy(buf[offset+4:], attr.Value)
		offset += 4 + nearestPadded(len(attr.Value))
	}
	return buf
}

// Response is an immutable view over a parsed STUN message. It exposes only
// read accessors; callers that want to reply build a new Request.
type Response struct {
	Type          MessageType
	Cookie        uint32
	Legacy        bool
	TransactionID []byte
	Attributes    Attributes

	// raw is the exact bytes this message was parsed from, used by the
	// integrity/fingerprint verifiers to recompute digests over the
	// original wire form rather than a re-encoded approximation of it.
	raw         []byte
	attrOffsets []int
}

// ParseResponse decodes b into a Response. b is not retained verbatim for
// mutation by the caller; a private copy is kept internally.
func ParseResponse(b []byte) (*Response, error) {
	if len(b) < headerSize {
		return nil, ErrTruncatedMessage
	}

	var typ MessageType
	typ.ReadValue(binary.BigEndian.Uint16(b[0:2]))
	length := binary.BigEndian.Uint16(b[2:4])
	if length%4 != 0 {
		return nil, ErrBadAttributeLength
	}
	cookieVal := binary.BigEndian.Uint32(b[4:8])
	legacy := cookieVal != magicCookie

	full := headerSize + int(length)
	if len(b) < full {
		return nil, ErrTruncatedMessage
	}

	var txID []byte
	var cookie uint32
	if legacy {
		txID = append([]byte(nil), b[4:4+legacyIDSize]...)
	} else {
		txID = append([]byte(nil), b[8:headerSize]...)
		cookie = cookieVal
	}

	var attrs Attributes
	var offsets []int
	offset := headerSize
	for offset < full {
		if full-offset < 4 {
			return nil, ErrTruncatedMessage
		}
		aType := AttrType(binary.BigEndian.Uint16(b[offset : offset+2]))
		aLen := int(binary.BigEndian.Uint16(b[offset+2 : offset+4]))
		padded := nearestPadded(aLen)
		if full-offset-4 < padded {
			return nil, ErrBadAttributeLength
		}
		value := append([]byte(nil), b[offset+4:offset+4+aLen]...)
		attrs = append(attrs, RawAttribute{Type: aType, Value: value})
		offsets = append(offsets, offset)
		offset += 4 + padded
	}

	return &Response{
		Type:          typ,
		Cookie:        cookie,
		Legacy:        legacy,
		TransactionID: txID,
		Attributes:    attrs,
		raw:           append([]byte(nil), b[:full]...),
		attrOffsets:   offsets,
	}, nil
}

// ReflexiveAddr returns the address a STUN server observed this message's
// sender at, preferring XOR-MAPPED-ADDRESS and falling back to
// MAPPED-ADDRESS.
func (resp *Response) ReflexiveAddr() (*net.UDPAddr, error) {
	if attr, ok := resp.Attributes.Get(AttrXorMappedAddress); ok {
		return decodeXorAddress(attr.Value, resp.TransactionID)
	}
	if attr, ok := resp.Attributes.Get(AttrMappedAddress); ok {
		return decodePlainAddress(attr.Value)
	}
	return nil, ErrAttributeNotFound
}
