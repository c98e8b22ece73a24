package param

import (
	"testing"

	"antaracc/internal/domain/chain"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	want := chainhash.Hash{0x01, 0x02}

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "display order", in: want.String()},
		{name: "short", in: "0102", wantErr: true},
		{name: "not hex", in: "zz" + want.String()[2:], wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Hash("id", tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPubKey(t *testing.T) {
	pk, err := PubKey("02aa")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0xaa}, pk)

	_, err = PubKey("")
	assert.Error(t, err)
	_, err = PubKey("xyz")
	assert.Error(t, err)
}

func TestHistory_Options(t *testing.T) {
	assert.Equal(t, chain.HistoryOptions{MaxSamples: 3, Recursive: true}, History{Samples: 3, Recursive: true}.Options())
}
