package ladder

import (
	"fmt"
	"strconv"
	"strings"
)

// Device is a device class letter code.
type Device byte

// Device classes accepted by ParseAddress.
const (
	DeviceP Device = 'P' // I/O relay
	DeviceM Device = 'M' // auxiliary relay
	DeviceK Device = 'K' // keep relay
	DeviceF Device = 'F' // special relay
	DeviceT Device = 'T' // timer
	DeviceC Device = 'C' // counter
	DeviceL Device = 'L' // link relay
	DeviceN Device = 'N' // communication data
	DeviceD Device = 'D' // data register
	DeviceR Device = 'R' // file register
	DeviceU Device = 'U' // special module register
	DeviceZ Device = 'Z' // index register
)

var devices = map[Device]bool{
	DeviceP: true, DeviceM: true, DeviceK: true, DeviceF: true,
	DeviceT: true, DeviceC: true, DeviceL: true, DeviceN: true,
	DeviceD: true, DeviceR: true, DeviceU: true, DeviceZ: true,
}

// Valid reports whether d belongs to the closed device set.
func (d Device) Valid() bool { return devices[d] }

// Address identifies a device word or bit.
type Address struct {
	Device Device
	Number int
	Bit    *int
}

// ParseAddress parses strings such as "M0000", "P40" or "D0100.3".
//
// The first character is the device code, followed by a decimal number and
// an optional "."-separated decimal bit index. Anything else, including an
// unknown device code, yields false rather than an error.
func ParseAddress(s string) (Address, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Address{}, false
	}
	code := s[0]
	if !isCodeChar(code) || !Device(code).Valid() {
		return Address{}, false
	}

	rest := s[1:]
	var bitPart string
	hasBit := false
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest, bitPart, hasBit = rest[:i], rest[i+1:], true
	}

	num, ok := parseDecimal(rest)
	if !ok {
		return Address{}, false
	}
	addr := Address{Device: Device(code), Number: num}
	if hasBit {
		bit, ok := parseDecimal(bitPart)
		if !ok {
			return Address{}, false
		}
		addr.Bit = &bit
	}
	return addr, true
}

func isCodeChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func parseDecimal(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MustParseAddress is like ParseAddress but panics on invalid input.
// It is intended for tests and static tables.
func MustParseAddress(s string) Address {
	a, ok := ParseAddress(s)
	if !ok {
		panic(fmt.Sprintf("ladder: invalid address %q", s))
	}
	return a
}

// IsZero reports whether a is the zero Address ("no address").
func (a Address) IsZero() bool { return a.Device == 0 }

// String formats the address with a zero-padded four digit number.
func (a Address) String() string {
	if a.IsZero() {
		return ""
	}
	s := fmt.Sprintf("%c%04d", a.Device, a.Number)
	if a.Bit != nil {
		s += "." + strconv.Itoa(*a.Bit)
	}
	return s
}

// Equal reports whether a and b name the same device word or bit.
func (a Address) Equal(b Address) bool {
	if a.Device != b.Device || a.Number != b.Number {
		return false
	}
	if (a.Bit == nil) != (b.Bit == nil) {
		return false
	}
	return a.Bit == nil || *a.Bit == *b.Bit
}

// Operand is either a device address or a literal integer.
type Operand struct {
	Address *Address
	Literal int64
}

// AddressOperand returns an operand referencing a.
func AddressOperand(a Address) Operand { return Operand{Address: &a} }

// LiteralOperand returns a literal operand.
func LiteralOperand(v int64) Operand { return Operand{Literal: v} }

// IsLiteral reports whether o is a literal number.
func (o Operand) IsLiteral() bool { return o.Address == nil }

// String renders o as an address string or a decimal literal.
func (o Operand) String() string {
	if o.Address != nil {
		return o.Address.String()
	}
	return strconv.FormatInt(o.Literal, 10)
}

// Equal reports whether o and p are the same address or the same literal.
func (o Operand) Equal(p Operand) bool {
	if o.IsLiteral() != p.IsLiteral() {
		return false
	}
	if o.IsLiteral() {
		return o.Literal == p.Literal
	}
	return o.Address.Equal(*p.Address)
}

// ParseOperand parses s as an address, falling back to a decimal literal.
// It returns false when s is neither.
func ParseOperand(s string) (Operand, bool) {
	s = strings.TrimSpace(s)
	if a, ok := ParseAddress(s); ok {
		return AddressOperand(a), true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Operand{}, false
	}
	return LiteralOperand(v), true
}
