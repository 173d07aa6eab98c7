package pgdock

import (
	"bytes"
	"slices"
	"sync"
)

// Data is a byte payload exchanged with the server, such as a statement
// parameter or a field of a result row. Implementations differ in how the
// underlying storage is owned: see NewData, NewDataCopy, NewDataView,
// AdoptData, and Empty.
//
// For every Data, Size is zero exactly when IsEmpty reports true, and an
// empty payload still exposes a non-nil Bytes slice. Size never includes a
// terminating byte.
type Data interface {
	// Format returns the wire representation of the payload.
	Format() Format
	// Size returns the number of payload bytes.
	Size() int
	// IsEmpty reports whether the payload has no bytes.
	IsEmpty() bool
	// Bytes returns the payload. Treat the slice as read-only; it is valid
	// for as long as the Data itself under the ownership rules of the
	// factory that produced it.
	Bytes() []byte
	// Copy returns a Data with the same bytes and format backed by storage
	// owned by the copy alone.
	Copy() Data
	// Close releases storage the Data owns. It matters only for payloads
	// produced by AdoptData, EncodeData, and UnescapeBytea, and is a no-op
	// everywhere else.
	Close() error
}

// zeroTerm backs the Bytes result of every empty payload so that emptiness
// never means a nil slice. The zero capacity keeps an append on the result
// from writing into the shared array.
var zeroTerm [1]byte

func emptyBytes() []byte { return zeroTerm[:0:0] }

// Empty returns the empty payload in the given format.
func Empty(format Format) Data { return emptyData{format: format} }

// NewData returns a Data that takes ownership of b without copying, in the
// manner of bytes.NewBuffer: the caller must not use b afterwards.
func NewData(b []byte, format Format) Data {
	return &bytesData{b: b, format: format}
}

// NewDataCopy returns a Data backed by a copy of b. Zero-length input needs
// no storage of its own and yields the empty payload.
func NewDataCopy(b []byte, format Format) Data {
	if len(b) == 0 {
		return Empty(format)
	}
	return &bytesData{b: slices.Clone(b), format: format}
}

// NewDataView returns a Data that borrows b without taking ownership. The
// caller keeps b alive and unchanged for as long as the view is in use.
// A view over nothing is unnecessary, so zero-length input yields the empty
// payload instead.
func NewDataView(b []byte, format Format) Data {
	if len(b) == 0 {
		return Empty(format)
	}
	return DataView{b: b, format: format}
}

// AdoptData wraps storage allocated elsewhere, such as a buffer handed over
// by a foreign allocator or drawn from a recycling pool. Close calls release
// exactly once and the payload reads as empty afterwards. Copy never carries
// the release obligation over. A nil release degrades to a plain no-op.
func AdoptData(b []byte, release func(), format Format) Data {
	return &memData{b: b, format: format, release: release}
}

// Equal reports whether two payloads have the same format and bytes. A nil
// Data is equal only to another nil.
func Equal(a, b Data) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Format() == b.Format() && bytes.Equal(a.Bytes(), b.Bytes())
}

// bytesData owns its storage outright, either adopted from the caller or
// allocated for a copy.
type bytesData struct {
	b      []byte
	format Format
}

func (d *bytesData) Format() Format { return d.format }
func (d *bytesData) Size() int      { return len(d.b) }
func (d *bytesData) IsEmpty() bool  { return len(d.b) == 0 }

func (d *bytesData) Bytes() []byte {
	if len(d.b) == 0 {
		return emptyBytes()
	}
	return d.b
}

func (d *bytesData) Copy() Data   { return NewDataCopy(d.b, d.format) }
func (d *bytesData) Close() error { return nil }

// memData wraps storage owned by a foreign allocator. The release callback
// runs exactly once, on the first Close.
type memData struct {
	b       []byte
	format  Format
	release func()
	once    sync.Once
}

func (d *memData) Format() Format { return d.format }
func (d *memData) Size() int      { return len(d.b) }
func (d *memData) IsEmpty() bool  { return len(d.b) == 0 }

func (d *memData) Bytes() []byte {
	if len(d.b) == 0 {
		return emptyBytes()
	}
	return d.b
}

func (d *memData) Copy() Data { return NewDataCopy(d.b, d.format) }

func (d *memData) Close() error {
	d.once.Do(func() {
		if d.release != nil {
			d.release()
		}
		d.b = nil
	})
	return nil
}

// emptyData is the empty payload sentinel.
type emptyData struct {
	format Format
}

func (d emptyData) Format() Format { return d.format }
func (d emptyData) Size() int      { return 0 }
func (d emptyData) IsEmpty() bool  { return true }
func (d emptyData) Bytes() []byte  { return emptyBytes() }
func (d emptyData) Copy() Data     { return d }
func (d emptyData) Close() error   { return nil }
