package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/torrsum/torrsum/peers"
	"github.com/torrsum/torrsum/torrentfile"
	"github.com/torrsum/torrsum/util"
)

func main() {
	logger := logrus.New()

	if len(os.Args) < 2 {
		logger.Fatalf("usage: %v <file.torrent>", os.Args[0])
	}
	inPath := os.Args[1]
	if !util.IsTorrentFile(inPath) {
		logger.Fatalf("%v is not a torrent (.torrent) file", inPath)
	}

	tf, err := torrentfile.Open(inPath)
	if err != nil {
		logger.WithError(err).Fatalf("Error opening torrent file")
	}

	logger.WithFields(logrus.Fields{
		"name":   tf.Info.Name,
		"size":   util.FormatBytes(tf.Info.Length),
		"pieces": tf.Info.NumPieces,
	}).Infof("Parsed torrent file")
	logger.Infof("Info hash: %v", tf.Info.InfoHashHex)

	peerID, err := peers.GenerateID()
	if err != nil {
		logger.WithError(err).Fatalf("Error generating peer id")
	}

	prs, err := tf.Announce(peerID, torrentfile.Port)
	if err != nil {
		logger.WithError(err).Fatalf("Error announcing to tracker")
	}

	logger.Infof("Tracker returned %d peers", len(prs))
	for _, p := range prs {
		logger.Info(p.String())
	}
}
