package bencode

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Error kinds returned by the decoder. Every decode failure unwraps to
// exactly one of these, so callers can match with errors.Is.
var (
	// ErrUnexpectedByte means a byte appeared where the grammar forbids it,
	// such as a missing ':' after a string length.
	ErrUnexpectedByte = errors.New("unexpected byte")

	// ErrUnexpectedEOF means the input ended in the middle of a construct.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrInvalidLength means a numeric token is malformed: a leading zero,
	// a value that overflows int64, or a string length beyond the decoder's
	// limit.
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidFormat means structurally valid bencode that does not
	// satisfy a shape requirement, such as a non-dictionary root or a
	// dictionary key that is not a byte string.
	ErrInvalidFormat = errors.New("invalid format")
)

// A ParseError describes where and why a decode failed. It wraps one of the
// Err* kind sentinels.
type ParseError struct {
	Offset int64
	Err    error
	msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bencode: offset %d: %s", e.Offset, e.msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Defaults for the decoder's hardening limits. Untrusted input can nest
// arbitrarily deep and declare arbitrarily large strings, so both are capped
// unless the caller raises them.
const (
	DefaultMaxDepth     = 2048
	DefaultMaxStringLen = int64(1) << 30
)

// A Decoder reads bencode values from a byte stream in a single pass.
type Decoder struct {
	// MaxDepth bounds list/dictionary nesting; exceeding it fails with
	// ErrInvalidFormat.
	MaxDepth int

	// MaxStringLen bounds a single byte-string length prefix; exceeding it
	// fails with ErrInvalidLength.
	MaxStringLen int64

	r      *bufio.Reader
	offset int64
	depth  int
}

// NewDecoder returns a decoder reading from r with the default limits.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		MaxDepth:     DefaultMaxDepth,
		MaxStringLen: DefaultMaxStringLen,
		r:            bufio.NewReader(r),
	}
}

// Decode consumes exactly one bencode value from the stream. It returns
// (nil, nil) only when the stream is already exhausted at a value boundary;
// any other outcome is a fully materialized Value or a *ParseError. No
// partial tree is ever returned.
func (d *Decoder) Decode() (Value, error) {
	b, err := d.r.ReadByte()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	at := d.offset
	d.offset++

	v, end, err := d.decodeValue(b)
	if err != nil {
		return nil, err
	}
	if end {
		return nil, d.failAt(at, ErrUnexpectedByte, "%q outside a list or dictionary", byte(valueEnd))
	}
	return v, nil
}

// Decode reads a single value from r. See Decoder.Decode.
func Decode(r io.Reader) (Value, error) {
	return NewDecoder(r).Decode()
}

// DecodeBytes reads a single value from b.
func DecodeBytes(b []byte) (Value, error) {
	return Decode(bytes.NewReader(b))
}

// ParseRoot decodes one value from r and requires it to be a dictionary, the
// only legal top-level shape for a torrent file. Bytes after the root value
// are ignored; callers wanting strict-EOF semantics can use a Decoder and
// check that a second Decode returns (nil, nil).
func ParseRoot(r io.Reader) (Dictionary, error) {
	d := NewDecoder(r)
	v, err := d.Decode()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &ParseError{Err: ErrInvalidFormat, msg: "invalid format: empty input, expected a dictionary"}
	}
	root, ok := v.(Dictionary)
	if !ok {
		return nil, &ParseError{Err: ErrInvalidFormat, msg: "invalid format: top-level value is not a dictionary"}
	}
	return root, nil
}

// ParseRootBytes decodes the root dictionary from b.
func ParseRootBytes(b []byte) (Dictionary, error) {
	return ParseRoot(bytes.NewReader(b))
}

func (d *Decoder) fail(kind error, format string, args ...interface{}) error {
	return d.failAt(d.offset, kind, format, args...)
}

func (d *Decoder) failAt(offset int64, kind error, format string, args ...interface{}) error {
	return &ParseError{
		Offset: offset,
		Err:    kind,
		msg:    fmt.Sprintf("%s: %s", kind, fmt.Sprintf(format, args...)),
	}
}

// readByte reads the next byte, turning EOF into ErrUnexpectedEOF: every
// caller is mid-construct and has no legal way to run out of input.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == io.EOF {
		return 0, d.fail(ErrUnexpectedEOF, "input ended mid-value")
	}
	if err != nil {
		return 0, err
	}
	d.offset++
	return b, nil
}

// decodeValue consumes one value or one terminator, dispatching on the lead
// byte, which has already been consumed. The second result is true only for
// the terminator; it is consumed by the list and dictionary loops and never
// escapes the package.
func (d *Decoder) decodeValue(lead byte) (Value, bool, error) {
	switch {
	case lead == integerStart:
		v, err := d.decodeInteger()
		return v, false, err
	case lead >= '0' && lead <= '9':
		v, err := d.decodeByteString(lead)
		return v, false, err
	case lead == listStart:
		v, err := d.decodeList()
		return v, false, err
	case lead == dictStart:
		v, err := d.decodeDictionary()
		return v, false, err
	case lead == valueEnd:
		return nil, true, nil
	}
	return nil, false, d.failAt(d.offset-1, ErrUnexpectedByte, "%q cannot start a value", lead)
}

func (d *Decoder) decodeInteger() (Value, error) {
	start := d.offset
	var digits []byte
	for {
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if b == valueEnd {
			break
		}
		if b != '-' && (b < '0' || b > '9') {
			return nil, d.failAt(d.offset-1, ErrUnexpectedByte, "%q in integer", b)
		}
		digits = append(digits, b)
	}

	s := string(digits)
	neg := len(s) > 0 && s[0] == '-'
	body := s
	if neg {
		body = s[1:]
	}
	if len(body) == 0 {
		return nil, d.failAt(start, ErrUnexpectedByte, "integer has no digits")
	}
	for _, c := range []byte(body) {
		if c < '0' || c > '9' {
			return nil, d.failAt(start, ErrUnexpectedByte, "%q in integer", c)
		}
	}
	switch {
	case neg && body == "0":
		return nil, d.failAt(start, ErrInvalidLength, "negative zero")
	case len(body) > 1 && body[0] == '0':
		return nil, d.failAt(start, ErrInvalidLength, "integer has a leading zero")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, d.failAt(start, ErrInvalidLength, "integer %s overflows int64", s)
	}
	return Integer(n), nil
}

func (d *Decoder) decodeByteString(lead byte) (Value, error) {
	start := d.offset - 1
	length := int64(lead - '0')
	for {
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if b == lengthSep {
			break
		}
		if b < '0' || b > '9' {
			return nil, d.failAt(d.offset-1, ErrUnexpectedByte, "%q in string length, expected %q", b, byte(lengthSep))
		}
		if lead == '0' {
			return nil, d.failAt(start, ErrInvalidLength, "string length has a leading zero")
		}
		if length > (math.MaxInt64-int64(b-'0'))/10 {
			return nil, d.failAt(start, ErrInvalidLength, "string length overflows int64")
		}
		length = length*10 + int64(b-'0')
	}
	if length > d.MaxStringLen {
		return nil, d.failAt(start, ErrInvalidLength, "string length %d exceeds limit %d", length, d.MaxStringLen)
	}

	buf := make([]byte, length)
	n, err := io.ReadFull(d.r, buf)
	d.offset += int64(n)
	if err != nil {
		return nil, d.fail(ErrUnexpectedEOF, "string declares %d bytes, input has %d", length, n)
	}
	return ByteString(buf), nil
}

func (d *Decoder) decodeList() (Value, error) {
	if err := d.push(); err != nil {
		return nil, err
	}
	defer d.pop()

	list := List{}
	for {
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		v, end, err := d.decodeValue(b)
		if err != nil {
			return nil, err
		}
		if end {
			return list, nil
		}
		list = append(list, v)
	}
}

func (d *Decoder) decodeDictionary() (Value, error) {
	if err := d.push(); err != nil {
		return nil, err
	}
	defer d.pop()

	dict := Dictionary{}
	for {
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		at := d.offset - 1
		kv, end, err := d.decodeValue(b)
		if err != nil {
			return nil, err
		}
		if end {
			return dict, nil
		}
		key, ok := kv.(ByteString)
		if !ok {
			return nil, d.failAt(at, ErrInvalidFormat, "dictionary key is not a byte string")
		}

		b, err = d.readByte()
		if err != nil {
			return nil, err
		}
		at = d.offset - 1
		vv, end, err := d.decodeValue(b)
		if err != nil {
			return nil, err
		}
		if end {
			return nil, d.failAt(at, ErrUnexpectedByte, "dictionary key %q has no value", key)
		}
		// A repeated key overwrites the earlier entry.
		dict[string(key)] = vv
	}
}

func (d *Decoder) push() error {
	d.depth++
	if d.depth > d.MaxDepth {
		return d.fail(ErrInvalidFormat, "nesting exceeds %d levels", d.MaxDepth)
	}
	return nil
}

func (d *Decoder) pop() { d.depth-- }
