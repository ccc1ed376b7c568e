// Package bencode implements the serialization format used by BitTorrent
// metadata files. It provides a recursive-descent decoder that turns a byte
// stream into a Value tree, a canonical encoder that always emits dictionary
// keys in ascending raw byte order, and the info-hash derivation built on top
// of both. The canonical ordering is what makes an info-hash computed here
// byte-for-byte comparable with one computed by any other compliant client.
package bencode

const (
	integerStart = 'i'
	listStart    = 'l'
	dictStart    = 'd'
	valueEnd     = 'e'
	lengthSep    = ':'
)
