// Package ledgertest собирает согласованные транзакции модулей для тестов
// и складывает их в индекс в памяти.
package ledgertest

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"
	"antaracc/internal/infrastructure/storage/memory"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// Key возвращает детерминированный сжатый публичный ключ.
func Key(seed byte) []byte {
	_, pub := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
	return pub.SerializeCompressed()
}

// Hash возвращает ненулевой детерминированный хеш.
func Hash(seed byte) chainhash.Hash {
	return chainhash.HashH([]byte{'h', seed})
}

type Builder struct {
	t       testing.TB
	seq     uint32
	Store   *memory.Ledger
	Codec   *opret.Codec
	Addr    *ledger.AddressBook
	Modules cc.Modules
}

func New(t testing.TB) *Builder {
	t.Helper()
	modules := cc.DefaultModules()
	return &Builder{
		t:       t,
		Store:   memory.New(slog.Default()),
		Codec:   opret.NewCodec(modules, slog.Default()),
		Addr:    ledger.NewAddressBook(),
		Modules: modules,
	}
}

// Funding - вход с обычной монеты, которой нет в индексе.
func (b *Builder) Funding(signer []byte) ledger.TxIn {
	b.seq++
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], b.seq)
	return ledger.TxIn{
		PrevOut: ledger.OutPoint{Hash: chainhash.HashH(append([]byte("coin"), buf[:]...)), Index: 0},
		Signer:  signer,
	}
}

func Spend(tx *ledger.Tx, vout uint32, signer []byte) ledger.TxIn {
	return ledger.TxIn{PrevOut: ledger.OutPoint{Hash: tx.ID, Index: vout}, Signer: signer}
}

func (b *Builder) Marker(eval uint8) ledger.TxOut {
	return ledger.TxOut{Value: cc.MarkerValue, Address: b.Addr.UnspendableAddress(eval), EvalCode: eval}
}

func (b *Builder) CC(eval uint8, value int64, pk []byte) ledger.TxOut {
	return ledger.TxOut{Value: value, Address: b.Addr.CCAddress(eval, pk), EvalCode: eval}
}

func (b *Builder) CC1of2(eval uint8, value int64, pk1, pk2 []byte) ledger.TxOut {
	return ledger.TxOut{Value: value, Address: b.Addr.CC1of2Address(eval, pk1, pk2), EvalCode: eval}
}

func (b *Builder) Normal(value int64, pk []byte) ledger.TxOut {
	return ledger.TxOut{Value: value, Address: b.Addr.NormalAddress(pk)}
}

func (b *Builder) Opret(rec opret.Record) ledger.TxOut {
	b.t.Helper()
	data, err := b.Codec.Encode(rec)
	require.NoError(b.t, err)
	return ledger.TxOut{OpReturn: data}
}

// Tx собирает транзакцию с уникальным id. Последний выход - opret записи.
func (b *Builder) Tx(rec opret.Record, inputs []ledger.TxIn, outputs ...ledger.TxOut) *ledger.Tx {
	b.t.Helper()
	b.seq++
	op := b.Opret(rec)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], b.seq)
	return &ledger.Tx{
		ID:      chainhash.DoubleHashH(append(buf[:], op.OpReturn...)),
		Inputs:  inputs,
		Outputs: append(outputs, op),
	}
}

func (b *Builder) Commit(tx *ledger.Tx) *ledger.Tx {
	b.t.Helper()
	require.NoError(b.t, b.Store.AddTransaction(context.Background(), tx))
	stored, err := b.Store.GetTransaction(context.Background(), tx.ID)
	require.NoError(b.t, err)
	return stored
}

func (b *Builder) Tokens() uint8     { return b.Modules.Tokens }
func (b *Builder) Agreements() uint8 { return b.Modules.Agreements }
