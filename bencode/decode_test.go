package bencode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVectors(t *testing.T) {
	tests := map[string]struct {
		input string
		want  Value
	}{
		"byte string": {
			input: "4:spam",
			want:  ByteString("spam"),
		},
		"empty byte string": {
			input: "0:",
			want:  ByteString{},
		},
		"integer": {
			input: "i42e",
			want:  Integer(42),
		},
		"negative integer": {
			input: "i-3e",
			want:  Integer(-3),
		},
		"zero": {
			input: "i0e",
			want:  Integer(0),
		},
		"list": {
			input: "l4:spam4:eggse",
			want:  List{ByteString("spam"), ByteString("eggs")},
		},
		"empty list": {
			input: "le",
			want:  List{},
		},
		"dictionary": {
			input: "d3:cow3:moo4:spam4:eggse",
			want:  Dictionary{"cow": ByteString("moo"), "spam": ByteString("eggs")},
		},
		"empty dictionary": {
			input: "de",
			want:  Dictionary{},
		},
		"nested": {
			input: "d4:listli1ei2ee3:subd1:ai-1eee",
			want: Dictionary{
				"list": List{Integer(1), Integer(2)},
				"sub":  Dictionary{"a": Integer(-1)},
			},
		},
	}

	for name, test := range tests {
		got, err := DecodeBytes([]byte(test.input))
		require.NoError(t, err, name)
		assert.True(t, Equal(test.want, got), name)
		assert.Equal(t, test.want, got, name)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]struct {
		input string
		kind  error
	}{
		"truncated byte string": {
			input: "3:ab",
			kind:  ErrUnexpectedEOF,
		},
		"truncated integer": {
			input: "i42",
			kind:  ErrUnexpectedEOF,
		},
		"truncated list": {
			input: "l4:spam",
			kind:  ErrUnexpectedEOF,
		},
		"truncated dictionary": {
			input: "d3:cow",
			kind:  ErrUnexpectedEOF,
		},
		"integer leading zero": {
			input: "i03e",
			kind:  ErrInvalidLength,
		},
		"negative zero": {
			input: "i-0e",
			kind:  ErrInvalidLength,
		},
		"integer overflow": {
			input: "i9223372036854775808e",
			kind:  ErrInvalidLength,
		},
		"integer without digits": {
			input: "ie",
			kind:  ErrUnexpectedByte,
		},
		"sign inside integer": {
			input: "i4-2e",
			kind:  ErrUnexpectedByte,
		},
		"length leading zero": {
			input: "03:abc",
			kind:  ErrInvalidLength,
		},
		"length overflow": {
			input: "92233720368547758079223372036854775807:",
			kind:  ErrInvalidLength,
		},
		"missing colon": {
			input: "4spam",
			kind:  ErrUnexpectedByte,
		},
		"unknown lead byte": {
			input: "x",
			kind:  ErrUnexpectedByte,
		},
		"terminator at top level": {
			input: "e",
			kind:  ErrUnexpectedByte,
		},
		"non string dictionary key": {
			input: "di3e3:mooe",
			kind:  ErrInvalidFormat,
		},
		"dictionary key without value": {
			input: "d3:cowe",
			kind:  ErrUnexpectedByte,
		},
	}

	for name, test := range tests {
		v, err := DecodeBytes([]byte(test.input))
		assert.Nil(t, v, name)
		assert.ErrorIs(t, err, test.kind, name)

		var pe *ParseError
		assert.ErrorAs(t, err, &pe, name)
	}
}

func TestDecodeCleanEOF(t *testing.T) {
	v, err := DecodeBytes(nil)
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestDecodeErrorOffset(t *testing.T) {
	_, err := DecodeBytes([]byte("l4:spamx"))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, pe, ErrUnexpectedByte)
	assert.Equal(t, int64(7), pe.Offset)
}

func TestParseRoot(t *testing.T) {
	root, err := ParseRootBytes([]byte("d3:cow3:mooe"))
	require.NoError(t, err)

	moo, ok := root.Bytes("cow")
	assert.True(t, ok)
	assert.Equal(t, []byte("moo"), moo)
}

func TestParseRootIgnoresTrailingBytes(t *testing.T) {
	root, err := ParseRootBytes([]byte("d3:cow3:mooetrailing junk"))
	require.NoError(t, err)
	assert.Len(t, root, 1)
}

func TestParseRootRejectsNonDictionary(t *testing.T) {
	tests := map[string]string{
		"list root":    "l4:spame",
		"integer root": "i42e",
		"string root":  "4:spam",
		"empty input":  "",
	}

	for name, input := range tests {
		root, err := ParseRootBytes([]byte(input))
		assert.Nil(t, root, name)
		assert.ErrorIs(t, err, ErrInvalidFormat, name)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	dec := NewDecoder(strings.NewReader("lllli1eeeee"))
	dec.MaxDepth = 3

	_, err := dec.Decode()
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodeDefaultDepthLimit(t *testing.T) {
	deep := strings.Repeat("l", DefaultMaxDepth+1)

	_, err := Decode(strings.NewReader(deep))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodeStringLengthLimit(t *testing.T) {
	dec := NewDecoder(strings.NewReader("6:sixsix"))
	dec.MaxStringLen = 5

	_, err := dec.Decode()
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecodeDuplicateKeyLastWins(t *testing.T) {
	v, err := DecodeBytes([]byte("d1:ai1e1:ai2ee"))
	require.NoError(t, err)

	n, ok := v.(Dictionary).Int("a")
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)
}

func TestDecodeSequentialValues(t *testing.T) {
	dec := NewDecoder(strings.NewReader("i1e4:spam"))

	v, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, Integer(1), v)

	v, err = dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, ByteString("spam"), v)

	v, err = dec.Decode()
	assert.NoError(t, err)
	assert.Nil(t, v)
}
