package bencode

import (
	"crypto/sha1"
	"encoding/hex"
)

// InfoHash derives the identity of the torrent described by root: the SHA-1
// digest of the canonical encoding of its "info" dictionary, returned both
// raw and as 40 lowercase hex characters. Because the encoder re-sorts keys,
// the result does not depend on the key order of the source file and matches
// the hash any other compliant client computes for the same logical content.
func InfoHash(root Dictionary) ([20]byte, string, error) {
	info, ok := root.Dict("info")
	if !ok {
		return [20]byte{}, "", &ParseError{
			Err: ErrInvalidFormat,
			msg: "invalid format: torrent has no info dictionary",
		}
	}
	sum := sha1.Sum(Encode(info))
	return sum, hex.EncodeToString(sum[:]), nil
}
