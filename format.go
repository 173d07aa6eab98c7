package pgdock

import "fmt"

// Format identifies the wire representation of a payload exchanged with the
// server.
type Format int16

const (
	// FormatInvalid marks a payload with no meaningful representation, such
	// as the zero DataView.
	FormatInvalid Format = -1
	// FormatText is the textual representation.
	FormatText Format = 0
	// FormatBinary is the binary representation.
	FormatBinary Format = 1
)

// Code returns the PostgreSQL protocol format code. It is meaningful only
// for FormatText and FormatBinary.
func (f Format) Code() int16 { return int16(f) }

// IsValid reports whether f is a representation the protocol knows.
func (f Format) IsValid() bool { return f == FormatText || f == FormatBinary }

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	case FormatInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Format(%d)", int16(f))
	}
}
