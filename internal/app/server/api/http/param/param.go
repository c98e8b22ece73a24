package param

import (
	"encoding/hex"

	"antaracc/internal/domain/chain"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/danielgtaylor/huma/v2"
)

// Hash разбирает идентификатор в порядке отображения.
func Hash(name, s string) (chainhash.Hash, error) {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil || len(s) != 2*chainhash.HashSize {
		return chainhash.Hash{}, huma.Error422UnprocessableEntity("invalid "+name, &huma.ErrorDetail{
			Location: "path." + name,
			Value:    s,
		})
	}
	return *h, nil
}

// PubKey разбирает hex ключа. Корректность точки проверяет сервис.
func PubKey(s string) ([]byte, error) {
	pk, err := hex.DecodeString(s)
	if err != nil || len(pk) == 0 {
		return nil, huma.Error422UnprocessableEntity("invalid pubkey", &huma.ErrorDetail{
			Location: "path.pubkey",
			Value:    s,
		})
	}
	return pk, nil
}

// History - общие параметры выборки истории.
type History struct {
	Samples   int  `query:"samples" minimum:"0" default:"0" doc:"Сколько записей вернуть, 0 - все до предела обхода"`
	Recursive bool `query:"recursive" doc:"Идти до начала цепочки, игнорируя samples"`
}

func (h History) Options() chain.HistoryOptions {
	return chain.HistoryOptions{MaxSamples: h.Samples, Recursive: h.Recursive}
}
