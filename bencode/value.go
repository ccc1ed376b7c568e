package bencode

import "bytes"

// A Value is one of the four bencode shapes: Integer, ByteString, List or
// Dictionary. The set is closed; the list/dictionary terminator seen while
// decoding is internal to the decoder and never appears in a returned tree.
type Value interface {
	encodeTo(buf *bytes.Buffer)
}

// Integer is a signed bencode integer. The format allows arbitrary precision
// but this package bounds values to 64 bits and rejects anything larger
// during decode.
type Integer int64

// ByteString is a length-prefixed sequence of raw octets. It is not
// necessarily valid UTF-8.
type ByteString []byte

// List is an ordered sequence of values. Order is preserved exactly as
// parsed.
type List []Value

// Dictionary maps byte-string keys to values. The map key holds the raw key
// bytes; canonical serialization order is ascending byte-wise order of those
// bytes, never insertion order.
type Dictionary map[string]Value

// Bytes returns the byte string stored under key.
func (d Dictionary) Bytes(key string) ([]byte, bool) {
	b, ok := d[key].(ByteString)
	return b, ok
}

// Int returns the integer stored under key.
func (d Dictionary) Int(key string) (int64, bool) {
	i, ok := d[key].(Integer)
	return int64(i), ok
}

// List returns the list stored under key.
func (d Dictionary) List(key string) (List, bool) {
	l, ok := d[key].(List)
	return l, ok
}

// Dict returns the dictionary stored under key.
func (d Dictionary) Dict(key string) (Dictionary, bool) {
	sub, ok := d[key].(Dictionary)
	return sub, ok
}

// Equal reports whether two values are structurally equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case ByteString:
		bv, ok := b.(ByteString)
		return ok && bytes.Equal(av, bv)
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Dictionary:
		bv, ok := b.(Dictionary)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}
