package ledger

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// OutPoint ссылается на конкретный выход транзакции.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// TxIn - вход транзакции. Signer заполняется коллаборатором подписи:
// публичный ключ, чья подпись авторизовала трату.
type TxIn struct {
	PrevOut OutPoint
	Signer  []byte
}

// TxOut - выход транзакции. EvalCode != 0 означает CC-выход,
// непустой OpReturn - неиспользуемый выход с метаданными.
type TxOut struct {
	Value    int64
	Address  string
	EvalCode uint8
	OpReturn []byte
}

func (o TxOut) IsCC() bool {
	return o.EvalCode != 0 && len(o.OpReturn) == 0
}

func (o TxOut) IsOpReturn() bool {
	return len(o.OpReturn) > 0
}

type Tx struct {
	ID      chainhash.Hash
	Height  int64
	Inputs  []TxIn
	Outputs []TxOut
}

// OpReturn возвращает метаданные из последнего выхода.
func (tx *Tx) OpReturn() ([]byte, bool) {
	if len(tx.Outputs) == 0 {
		return nil, false
	}
	last := tx.Outputs[len(tx.Outputs)-1]
	if !last.IsOpReturn() {
		return nil, false
	}
	return last.OpReturn, true
}

// Output возвращает выход по индексу, если он существует.
func (tx *Tx) Output(vout uint32) (TxOut, bool) {
	if int(vout) >= len(tx.Outputs) {
		return TxOut{}, false
	}
	return tx.Outputs[vout], true
}

// Spends сообщает, тратит ли транзакция указанный выход.
func (tx *Tx) Spends(op OutPoint) bool {
	for _, in := range tx.Inputs {
		if in.PrevOut == op {
			return true
		}
	}
	return false
}

// SignedBy сообщает, подписан ли хотя бы один вход ключом pubkey.
func (tx *Tx) SignedBy(pubkey []byte) bool {
	if len(pubkey) == 0 {
		return false
	}
	for _, in := range tx.Inputs {
		if bytes.Equal(in.Signer, pubkey) {
			return true
		}
	}
	return false
}

// AddressOutput - непотраченный выход, найденный по адресу.
type AddressOutput struct {
	Tx    *Tx
	Index uint32
}

func (a AddressOutput) Output() TxOut {
	return a.Tx.Outputs[a.Index]
}
