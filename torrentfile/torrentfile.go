package torrentfile

import (
	"bufio"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/torrsum/torrsum/bencode"
)

var (
	errNoInfo           = errors.New("torrent has no info dictionary")
	errInvalidPieceData = errors.New("invalid piece data")
	errZeroPieceLength  = errors.New("torrent has zero piece length")
	errZeroPieces       = errors.New("torrent has zero pieces")
)

const Port uint16 = 6881

// TorrentFile contains all information that a torrent needs to be announced
type TorrentFile struct {
	Info         TorrentInfo
	AnnounceList [][]string
}

// TorrentInfo contains info about the torrent file
type TorrentInfo struct {
	Name        string
	InfoHash    [20]byte
	InfoHashHex string
	Length      int64
	NumPieces   uint32
	PieceLength uint32
	Pieces      []byte
	Private     bool
	Files       []File
}

// File represents a file inside of a torrent
type File struct {
	Length int64
	Path   string
}

type rawFile struct {
	length int64
	path   []string
}

// Open parses a torrent file
func Open(path string) (*TorrentFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := bencode.ParseRoot(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	return fromRoot(root)
}

func fromRoot(root bencode.Dictionary) (*TorrentFile, error) {
	var tf TorrentFile

	info, ok := root.Dict("info")
	if !ok {
		return nil, errNoInfo
	}

	ti, err := toTorrentInfo(root, info)
	if err != nil {
		return nil, err
	}
	tf.Info = *ti

	// Decide between announce list or announce url
	if tiers, ok := root.List("announce-list"); ok {
		for _, tier := range tiers {
			urls, ok := tier.(bencode.List)
			if !ok {
				continue
			}
			var t []string
			for _, u := range urls {
				if s, ok := u.(bencode.ByteString); ok && isTrackerSupported(string(s)) {
					t = append(t, string(s))
				}
			}
			if len(t) > 0 {
				tf.AnnounceList = append(tf.AnnounceList, t)
			}
		}
	} else if s, ok := root.Bytes("announce"); ok && isTrackerSupported(string(s)) {
		tf.AnnounceList = append(tf.AnnounceList, []string{string(s)})
	}

	return &tf, nil
}

func toTorrentInfo(root, info bencode.Dictionary) (*TorrentInfo, error) {
	pieceLength, _ := info.Int("piece length")
	if pieceLength <= 0 {
		return nil, errZeroPieceLength
	}
	pieces, _ := info.Bytes("pieces")
	if len(pieces)%sha1.Size != 0 {
		return nil, errInvalidPieceData
	}
	numPieces := len(pieces) / sha1.Size
	if numPieces == 0 {
		return nil, errZeroPieces
	}

	name, _ := info.Bytes("name")
	ti := TorrentInfo{
		Name:        string(name),
		NumPieces:   uint32(numPieces),
		PieceLength: uint32(pieceLength),
		Pieces:      pieces,
		Private:     privateFlag(info),
	}

	rawFiles, err := fileEntries(info)
	if err != nil {
		return nil, err
	}

	isMultiFile := len(rawFiles) > 0
	if isMultiFile {
		for _, file := range rawFiles {
			ti.Length += file.length
		}
	} else {
		ti.Length, _ = info.Int("length")
	}

	sumPiecesLength := int64(ti.PieceLength) * int64(ti.NumPieces)

	// Check total length against the piece count, since only the last piece
	// can be shorter than the rest
	if dif := sumPiecesLength - ti.Length; dif >= int64(ti.PieceLength) || dif < 0 {
		return nil, errInvalidPieceData
	}

	hash, hexHash, err := bencode.InfoHash(root)
	if err != nil {
		return nil, err
	}
	ti.InfoHash = hash
	ti.InfoHashHex = hexHash

	// If name is blank, create one
	if ti.Name == "" {
		ti.Name = ti.InfoHashHex
	}

	if isMultiFile {
		ti.Files = make([]File, len(rawFiles))
		for i, f := range rawFiles {
			parts := []string{clean(ti.Name)}
			for _, p := range f.path {
				parts = append(parts, clean(p))
			}
			ti.Files[i] = File{
				Path:   filepath.Join(parts...),
				Length: f.length,
			}
		}
	} else {
		ti.Files = []File{
			{
				Path:   clean(ti.Name),
				Length: ti.Length,
			},
		}
	}

	return &ti, nil
}

func fileEntries(info bencode.Dictionary) ([]rawFile, error) {
	entries, ok := info.List("files")
	if !ok {
		return nil, nil
	}

	files := make([]rawFile, 0, len(entries))
	for _, entry := range entries {
		fd, ok := entry.(bencode.Dictionary)
		if !ok {
			return nil, fmt.Errorf("expected file entry to be a dictionary")
		}
		length, _ := fd.Int("length")
		pathList, _ := fd.List("path")

		var parts []string
		for _, pv := range pathList {
			p, ok := pv.(bencode.ByteString)
			if !ok {
				return nil, fmt.Errorf("expected file path element to be a string")
			}
			// No .. allowed in file names
			if strings.TrimSpace(string(p)) == ".." {
				return nil, fmt.Errorf("invalid file name %v", filepath.Join(append(parts, string(p))...))
			}
			parts = append(parts, string(p))
		}
		files = append(files, rawFile{length: length, path: parts})
	}
	return files, nil
}

// PieceHash returns the expected sha1 hash of the piece at index
func (ti TorrentInfo) PieceHash(index uint32) []byte {
	begin := index * sha1.Size
	end := begin + sha1.Size
	return ti.Pieces[begin:end]
}

// The private flag shows up in the wild both as an integer and as a string
func privateFlag(info bencode.Dictionary) bool {
	switch v := info["private"].(type) {
	case bencode.Integer:
		return v != 0
	case bencode.ByteString:
		s := string(v)
		return !(s == "" || s == "0")
	case nil:
		return false
	}
	return true
}

func isTrackerSupported(s string) bool {
	// TODO: add udp when udp is done
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func clean(s string, max ...int) string {
	// Trim file name to correct length while keeping the extension
	trim := func(s string, max int) string {
		if len(s) <= max {
			return s
		}

		ext := path.Ext(s)
		// I hope this is never the case
		if len(ext) > max {
			return s[:max]
		}

		return s[:max-len(ext)] + ext
	}

	replaceSep := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r == '/' {
				return '_'
			}
			return r
		}, s)
	}

	// Default clean to 255
	var maxLength = 255
	if len(max) > 0 {
		maxLength = max[0]
	}
	s = strings.ToValidUTF8(s, string(unicode.ReplacementChar))
	s = trim(s, maxLength)
	s = strings.ToValidUTF8(s, "")

	return replaceSep(s)
}
