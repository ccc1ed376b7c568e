package torrentfile

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/torrsum/torrsum/bencode"
	"github.com/torrsum/torrsum/peers"
)

var errNoTracker = errors.New("torrent has no usable tracker")

// Build GET request url to hit tracker to announce presence as a peer and receive list of other peers
func (tf *TorrentFile) buildTrackerURL(announce string, peerID [20]byte, port uint16) (string, error) {
	base, err := url.Parse(announce)
	if err != nil {
		return "", err
	}

	// https://www.bittorrent.org/beps/bep_0003.html
	params := url.Values{
		"info_hash":  []string{string(tf.Info.InfoHash[:])}, // Identifies the file that is gonna get downloaded
		"peer_id":    []string{string(peerID[:])},
		"port":       []string{fmt.Sprintf("%v", port)},
		"uploaded":   []string{"0"},
		"downloaded": []string{"0"},
		"compact":    []string{"1"},
		"left":       []string{fmt.Sprintf("%v", tf.Info.Length)},
		"event":      []string{"started"},
	}

	// Craft up the url with the values
	base.RawQuery = params.Encode()
	return base.String(), nil
}

// Announce hits the first supported tracker once and returns the peers it
// responded with
func (tf *TorrentFile) Announce(peerID [20]byte, port uint16) ([]peers.Peer, error) {
	announce, err := tf.announceURL()
	if err != nil {
		return nil, err
	}

	url, err := tf.buildTrackerURL(announce, peerID, port)
	if err != nil {
		return nil, err
	}

	c := &http.Client{Timeout: 15 * time.Second}
	resp, err := c.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := bencode.ParseRoot(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("malformed tracker response: %w", err)
	}
	if reason, ok := body.Bytes("failure reason"); ok {
		return nil, fmt.Errorf("tracker: %s", reason)
	}

	blob, ok := body.Bytes("peers")
	if !ok {
		return nil, fmt.Errorf("tracker response has no peers")
	}
	return peers.Unmarshal(blob)
}

func (tf *TorrentFile) announceURL() (string, error) {
	for _, tier := range tf.AnnounceList {
		if len(tier) > 0 {
			return tier[0], nil
		}
	}
	return "", errNoTracker
}
