package opret

import (
	"bytes"

	"antaracc/internal/domain/cc"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/exp/slog"
)

func testPubKey(seed byte) []byte {
	_, pub := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
	return pub.SerializeCompressed()
}

func testHash(seed byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = seed + byte(i)
	}
	return h
}

func newTestCodec() *Codec {
	return NewCodec(cc.DefaultModules(), slog.Default())
}
