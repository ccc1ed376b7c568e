package peers

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"
)

// Peer is the information for a single peer connection
type Peer struct {
	IP   net.IP
	Port uint16
}

// Unmarshal parses the compact peer list a tracker returns: groups of 6
// bytes, first 4 ip, last 2 port
func Unmarshal(pbs []byte) ([]Peer, error) {
	const peerSize = 6

	// Double check that math is good
	if len(pbs)%peerSize != 0 {
		return nil, fmt.Errorf("received malformed peers")
	}

	peerCount := len(pbs) / peerSize
	peers := make([]Peer, peerCount)
	for i := 0; i < peerCount; i++ {
		offset := i * peerSize
		peers[i].IP = net.IP(pbs[offset : offset+4])
		peers[i].Port = binary.BigEndian.Uint16(pbs[offset+4 : offset+6])
	}
	return peers, nil
}

func (p Peer) String() string {
	return net.JoinHostPort(p.IP.String(), fmt.Sprintf("%v", p.Port))
}

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID returns a random 20 byte alphanumeric peer id. Real BitTorrent
// clients embed a client prefix, we just need to be unique per run.
func GenerateID() ([20]byte, error) {
	var id [20]byte
	buf := make([]byte, len(id))
	if _, err := rand.Read(buf); err != nil {
		return id, err
	}
	for i, b := range buf {
		id[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return id, nil
}
