package bencode

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const debianPieces = "1234567890abcdefghijabcdefghij1234567890"

func debianRoot() Dictionary {
	return Dictionary{
		"announce": ByteString("http://bttracker.debian.org:6969/announce"),
		"info": Dictionary{
			"pieces":       ByteString(debianPieces),
			"piece length": Integer(262144),
			"length":       Integer(351272960),
			"name":         ByteString("debian-10.2.0-amd64-netinst.iso"),
		},
	}
}

func TestInfoHash(t *testing.T) {
	hash, hexHash, err := InfoHash(debianRoot())
	require.NoError(t, err)

	assert.Equal(t, "d8f739cec328956ccc5bbf1f86d9fdcfdba8ceb6", hexHash)
	assert.Equal(t, hexHash, hex.EncodeToString(hash[:]))
}

// The hash must not depend on the key order of the source bytes, since the
// encoder re-sorts keys before digesting.
func TestInfoHashKeyOrderInvariant(t *testing.T) {
	sorted := "d4:info" +
		"d6:lengthi351272960e" +
		"4:name31:debian-10.2.0-amd64-netinst.iso" +
		"12:piece lengthi262144e" +
		"6:pieces40:" + debianPieces + "ee"
	shuffled := "d4:info" +
		"d6:pieces40:" + debianPieces +
		"4:name31:debian-10.2.0-amd64-netinst.iso" +
		"12:piece lengthi262144e" +
		"6:lengthi351272960eee"

	var hashes []string
	for _, raw := range []string{sorted, shuffled} {
		root, err := ParseRootBytes([]byte(raw))
		require.NoError(t, err)

		_, hexHash, err := InfoHash(root)
		require.NoError(t, err)
		hashes = append(hashes, hexHash)
	}

	assert.Equal(t, "d8f739cec328956ccc5bbf1f86d9fdcfdba8ceb6", hashes[0])
	assert.Equal(t, hashes[0], hashes[1])
}

func TestInfoHashErrors(t *testing.T) {
	tests := map[string]Dictionary{
		"missing info":        {"announce": ByteString("http://t.example.com")},
		"info not dictionary": {"info": ByteString("not a dictionary")},
	}

	for name, root := range tests {
		_, _, err := InfoHash(root)
		assert.ErrorIs(t, err, ErrInvalidFormat, name)
	}
}
