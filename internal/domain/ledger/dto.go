package ledger

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// TxDTO - JSON-представление транзакции для API, CLI и фикстур.
// Идентификаторы записываются в порядке отображения (как в обозревателях).
type TxDTO struct {
	ID      string     `json:"txid" doc:"Идентификатор транзакции"`
	Height  int64      `json:"height,omitempty" doc:"Высота блока"`
	Inputs  []TxInDTO  `json:"vin"`
	Outputs []TxOutDTO `json:"vout"`
}

type TxInDTO struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Signer string `json:"signer,omitempty" doc:"Публичный ключ, авторизовавший трату (hex)"`
}

type TxOutDTO struct {
	Value    int64  `json:"value"`
	Address  string `json:"address,omitempty"`
	EvalCode uint8  `json:"evalcode,omitempty"`
	OpReturn string `json:"opreturn,omitempty" doc:"Метаданные OP_RETURN (hex)"`
}

func (d TxDTO) ToTx() (*Tx, error) {
	id, err := chainhash.NewHashFromStr(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse txid: %w", err)
	}
	tx := &Tx{
		ID:      *id,
		Height:  d.Height,
		Inputs:  make([]TxIn, 0, len(d.Inputs)),
		Outputs: make([]TxOut, 0, len(d.Outputs)),
	}
	for i, in := range d.Inputs {
		prev, err := chainhash.NewHashFromStr(in.TxID)
		if err != nil {
			return nil, fmt.Errorf("parse vin %d txid: %w", i, err)
		}
		signer, err := hex.DecodeString(in.Signer)
		if err != nil {
			return nil, fmt.Errorf("parse vin %d signer: %w", i, err)
		}
		tx.Inputs = append(tx.Inputs, TxIn{
			PrevOut: OutPoint{Hash: *prev, Index: in.Vout},
			Signer:  signer,
		})
	}
	for i, out := range d.Outputs {
		if out.Value < 0 {
			return nil, fmt.Errorf("vout %d: negative value %d", i, out.Value)
		}
		data, err := hex.DecodeString(out.OpReturn)
		if err != nil {
			return nil, fmt.Errorf("parse vout %d opreturn: %w", i, err)
		}
		tx.Outputs = append(tx.Outputs, TxOut{
			Value:    out.Value,
			Address:  out.Address,
			EvalCode: out.EvalCode,
			OpReturn: data,
		})
	}
	return tx, nil
}

func FromTx(tx *Tx) TxDTO {
	d := TxDTO{
		ID:      tx.ID.String(),
		Height:  tx.Height,
		Inputs:  make([]TxInDTO, 0, len(tx.Inputs)),
		Outputs: make([]TxOutDTO, 0, len(tx.Outputs)),
	}
	for _, in := range tx.Inputs {
		d.Inputs = append(d.Inputs, TxInDTO{
			TxID:   in.PrevOut.Hash.String(),
			Vout:   in.PrevOut.Index,
			Signer: hex.EncodeToString(in.Signer),
		})
	}
	for _, out := range tx.Outputs {
		d.Outputs = append(d.Outputs, TxOutDTO{
			Value:    out.Value,
			Address:  out.Address,
			EvalCode: out.EvalCode,
			OpReturn: hex.EncodeToString(out.OpReturn),
		})
	}
	return d
}
