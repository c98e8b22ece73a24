package ledgertest

import (
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// CreateToken: vout0 маркер, vout1 эмиссия на токен-адрес origin.
func (b *Builder) CreateToken(origin []byte, supply int64, name string) *ledger.Tx {
	b.t.Helper()
	rec := &opret.TokenCreate{
		Origin:    origin,
		Name:      name,
		OwnerPerc: opret.DefaultOwnerPerc,
		TokenType: opret.DefaultTokenType,
	}
	return b.Tx(rec,
		[]ledger.TxIn{b.Funding(origin)},
		b.Marker(b.Tokens()),
		b.CC(b.Tokens(), supply, origin),
	)
}

// TransferToken тратит src, отправляет amount получателю (vout0),
// остаток change возвращает отправителю (vout1).
func (b *Builder) TransferToken(tokenID chainhash.Hash, src []ledger.TxIn, sender []byte, amount, change int64, dests ...[]byte) *ledger.Tx {
	b.t.Helper()
	outs := []ledger.TxOut{b.TokenOutput(amount, dests...)}
	if change > 0 {
		outs = append(outs, b.CC(b.Tokens(), change, sender))
	}
	rec := &opret.TokenTransfer{TokenID: tokenID, Destinations: dests}
	inputs := append(append([]ledger.TxIn{}, src...), b.Funding(sender))
	return b.Tx(rec, inputs, outs...)
}

// TokenOutput - выход с токенами для одного ключа или пары ключей.
func (b *Builder) TokenOutput(amount int64, dests ...[]byte) ledger.TxOut {
	if len(dests) == 2 {
		return b.CC1of2(b.Tokens(), amount, dests[0], dests[1])
	}
	return b.CC(b.Tokens(), amount, dests[0])
}

// UpdateToken тратит батон и возвращает его на тот же адрес.
func (b *Builder) UpdateToken(tokenID chainhash.Hash, baton ledger.TxIn, batonOut ledger.TxOut, prev chainhash.Hash, value int64) *ledger.Tx {
	b.t.Helper()
	rec := &opret.TokenUpdate{
		TokenID:      tokenID,
		PrevUpdateID: prev,
		DataHash:     Hash(byte(value)),
		Value:        value,
		CurrencyCode: "KMD",
		LicenseType:  opret.TLFDisplay | opret.TLFCopy,
	}
	return b.Tx(rec,
		[]ledger.TxIn{baton, b.Funding(baton.Signer)},
		batonOut,
	)
}
