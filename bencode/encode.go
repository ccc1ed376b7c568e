package bencode

import (
	"bytes"
	"sort"
	"strconv"
)

// Encode serializes v to its canonical byte form. Encoding is total: the
// type system only admits well-formed trees, so there is no error to return.
func Encode(v Value) []byte {
	var buf bytes.Buffer
	v.encodeTo(&buf)
	return buf.Bytes()
}

func (i Integer) encodeTo(buf *bytes.Buffer) {
	buf.WriteByte(integerStart)
	buf.WriteString(strconv.FormatInt(int64(i), 10))
	buf.WriteByte(valueEnd)
}

func (b ByteString) encodeTo(buf *bytes.Buffer) {
	buf.WriteString(strconv.Itoa(len(b)))
	buf.WriteByte(lengthSep)
	buf.Write(b)
}

func (l List) encodeTo(buf *bytes.Buffer) {
	buf.WriteByte(listStart)
	for _, v := range l {
		v.encodeTo(buf)
	}
	buf.WriteByte(valueEnd)
}

func (d Dictionary) encodeTo(buf *bytes.Buffer) {
	// Keys must appear in ascending raw byte order. Go string comparison is
	// unsigned byte-wise, which is exactly that order.
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte(dictStart)
	for _, k := range keys {
		ByteString(k).encodeTo(buf)
		d[k].encodeTo(buf)
	}
	buf.WriteByte(valueEnd)
}
