package stun

import (
	"fmt"
	"strconv"
)

const (
	headerSize        = 20
	magicCookie       = 0x2112A442
	fingerprintXOR    = 0x5354554E
	transactionIDSize = 12
	legacyIDSize      = 16
	// MaxPacketSize is the largest UDP datagram this package will attempt to
	// read or decode as a single STUN message.
	MaxPacketSize = 2048
)

// MessageClass is the 2-bit class of a STUN message type.
type MessageClass byte

// Possible values for a STUN message class.
const (
	ClassRequest    MessageClass = 0x00
	ClassIndication MessageClass = 0x01
	ClassSuccess    MessageClass = 0x02
	ClassError      MessageClass = 0x03
)

func (c MessageClass) String() string {
	switch c {
	case ClassRequest:
		return "request"
	case ClassIndication:
		return "indication"
	case ClassSuccess:
		return "success response"
	case ClassError:
		return "error response"
	default:
		return "unknown class"
	}
}

// Method is the 12-bit STUN method.
type Method uint16

// Methods reachable from the registry. Only Binding has request/response
// semantics implemented by Client/Server; the rest decode and encode so a
// caller building a TURN-adjacent tool on top of this codec can round-trip
// them without this package implementing TURN allocation state.
const (
	MethodBinding          Method = 0x001
	MethodAllocate         Method = 0x003
	MethodRefresh          Method = 0x004
	MethodSend             Method = 0x006
	MethodData             Method = 0x007
	MethodCreatePermission Method = 0x008
	MethodChannelBind      Method = 0x009
)

func (m Method) String() string {
	switch m {
	case MethodBinding:
		return "binding"
	case MethodAllocate:
		return "allocate"
	case MethodRefresh:
		return "refresh"
	case MethodSend:
		return "send"
	case MethodData:
		return "data"
	case MethodCreatePermission:
		return "create permission"
	case MethodChannelBind:
		return "channel bind"
	default:
		return "0x" + strconv.FormatUint(uint64(m), 16)
	}
}

// MessageType is the combination of a Method and a MessageClass that forms
// the 14-bit type field of a STUN message header.
type MessageType struct {
	Method Method
	Class  MessageClass
}

func (t MessageType) String() string {
	return fmt.Sprintf("%s %s", t.Method, t.Class)
}

// Well-known Binding message types.
var (
	BindingRequest    = MessageType{Method: MethodBinding, Class: ClassRequest}
	BindingIndication = MessageType{Method: MethodBinding, Class: ClassIndication}
	BindingSuccess    = MessageType{Method: MethodBinding, Class: ClassSuccess}
	BindingError      = MessageType{Method: MethodBinding, Class: ClassError}
)

// bit layout of the 14-bit STUN message type field (RFC 5389 section 6):
//
//	 0                 1
//	 2  3  4 5 6 7 8 9 0 1 2 3 4 5
//	+--+--+-+-+-+-+-+-+-+-+-+-+-+-+
//	|M |M |M|M|M|C|M|M|M|C|M|M|M|M|
//	|11|10|9|8|7|1|6|5|4|0|3|2|1|0|
//	+--+--+-+-+-+-+-+-+-+-+-+-+-+-+
const (
	methodABits = 0xf
	methodBBits = 0x70
	methodDBits = 0xf80

	methodBShift = 1
	methodDShift = 2

	c0Bit = 0x1
	c1Bit = 0x2

	classC0Shift = 4
	classC1Shift = 7
)

// Value returns the on-wire 14-bit representation of t.
func (t MessageType) Value() uint16 {
	m := uint16(t.Method)
	a := m & methodABits
	b := m & methodBBits
	d := m & methodDBits
	method := a + (b << methodBShift) + (d << methodDShift)

	c := uint16(t.Class)
	c0 := (c & c0Bit) << classC0Shift
	c1 := (c & c1Bit) << classC1Shift

	return method + c0 + c1
}

// ReadValue decodes the on-wire 14-bit representation v into t.
func (t *MessageType) ReadValue(v uint16) {
	c0 := (v >> classC0Shift) & c0Bit
	c1 := (v >> classC1Shift) & c1Bit
	t.Class = MessageClass(c0 + c1)

	a := v & methodABits
	b := (v >> methodBShift) & methodBBits
	d := (v >> methodDShift) & methodDBits
	t.Method = Method(a + b + d)
}

// AttrType is the 16-bit type field of a STUN attribute. The top bit
// distinguishes comprehension-required (0x0000-0x7FFF) from
// comprehension-optional (0x8000-0xFFFF) attributes.
type AttrType uint16

// Attribute types this registry knows how to encode and decode.
const (
	AttrMappedAddress     AttrType = 0x0001
	AttrUsername          AttrType = 0x0006
	AttrMessageIntegrity  AttrType = 0x0008
	AttrErrorCode         AttrType = 0x0009
	AttrUnknownAttributes AttrType = 0x000A
	AttrRealm             AttrType = 0x0014
	AttrNonce             AttrType = 0x0015
	AttrXorMappedAddress  AttrType = 0x0020
	AttrPriority          AttrType = 0x0024
	AttrUseCandidate      AttrType = 0x0025
	AttrSoftware          AttrType = 0x8022
	AttrAlternateServer   AttrType = 0x8023
	AttrFingerprint       AttrType = 0x8028
	AttrIceControlled     AttrType = 0x8029
	AttrIceControlling    AttrType = 0x802A
)

var attrTypeNames = map[AttrType]string{
	AttrMappedAddress:     "MAPPED-ADDRESS",
	AttrUsername:          "USERNAME",
	AttrMessageIntegrity:  "MESSAGE-INTEGRITY",
	AttrErrorCode:         "ERROR-CODE",
	AttrUnknownAttributes: "UNKNOWN-ATTRIBUTES",
	AttrRealm:             "REALM",
	AttrNonce:             "NONCE",
	AttrXorMappedAddress:  "XOR-MAPPED-ADDRESS",
	AttrPriority:          "PRIORITY",
	AttrUseCandidate:      "USE-CANDIDATE",
	AttrSoftware:          "SOFTWARE",
	AttrAlternateServer:   "ALTERNATE-SERVER",
	AttrFingerprint:       "FINGERPRINT",
	AttrIceControlled:     "ICE-CONTROLLED",
	AttrIceControlling:    "ICE-CONTROLLING",
}

func (t AttrType) String() string {
	if name, ok := attrTypeNames[t]; ok {
		return name
	}
	return "0x" + strconv.FormatUint(uint64(t), 16)
}

// ComprehensionRequired reports whether an unrecognized t must cause the
// receiver to reject the message (top bit of the type is zero).
func (t AttrType) ComprehensionRequired() bool {
	return t&0x8000 == 0
}

// knownAttrTypes is every attribute type this registry can encode/decode.
// Used by the server to detect comprehension-required attributes it does
// not understand, which must trigger a 420 error response.
var knownAttrTypes = map[AttrType]bool{
	AttrMappedAddress:     true,
	AttrUsername:          true,
	AttrMessageIntegrity:  true,
	AttrErrorCode:         true,
	AttrUnknownAttributes: true,
	AttrRealm:             true,
	AttrNonce:             true,
	AttrXorMappedAddress:  true,
	AttrPriority:          true,
	AttrUseCandidate:      true,
	AttrSoftware:          true,
	AttrAlternateServer:   true,
	AttrFingerprint:       true,
	AttrIceControlled:     true,
	AttrIceControlling:    true,
}

// defaultReasonPhrases is substituted for ERROR-CODE attributes added
// without an explicit reason.
var defaultReasonPhrases = map[int]string{
	300: "Try Alternate",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	420: "Unknown Attribute",
	438: "Stale Nonce",
	500: "Server Error",
}
