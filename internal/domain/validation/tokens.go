package validation

import (
	"bytes"
	"context"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func (v *Validator) validateTokens(ctx context.Context, tx *ledger.Tx, rec opret.Record) (State, error) {
	switch r := rec.(type) {
	case *opret.TokenCreate:
		return TokenCreated, v.tokenCreate(ctx, tx, r)
	case *opret.TokenTransfer:
		return TokenTransferred, v.tokenTransfer(ctx, tx, r)
	case *opret.TokenUpdate:
		return TokenUpdated, v.tokenUpdate(ctx, tx, r)
	}
	return "", cc.WithTx(cc.UnknownType("token record %s", opret.TypeName(rec)), tx.ID.String())
}

func (v *Validator) tokenCreate(ctx context.Context, tx *ledger.Tx, r *opret.TokenCreate) error {
	txid := tx.ID.String()
	eval := v.codec.Modules().Tokens

	if !validKey(r.Origin) {
		return cc.BusinessRule(txid, "invalid origin pubkey")
	}
	if r.Name == "" || len(r.Name) > opret.MaxTokenNameLen {
		return cc.BusinessRule(txid, "token name must be 1..%d bytes", opret.MaxTokenNameLen)
	}
	if len(r.Description) > opret.MaxTokenDescriptionLen {
		return cc.BusinessRule(txid, "token description longer than %d bytes", opret.MaxTokenDescriptionLen)
	}
	if r.OwnerPerc < 0 || r.OwnerPerc > 100 {
		return cc.BusinessRule(txid, "owner percentage %v out of range 0..100", r.OwnerPerc)
	}
	if r.ExpiryTimeSec < 0 {
		return cc.BusinessRule(txid, "negative expiry")
	}
	if !tx.SignedBy(r.Origin) {
		return cc.BusinessRule(txid, "token create is not signed by origin")
	}

	if err := checkOutput(tx, 0, eval, v.addr.UnspendableAddress(eval), cc.MarkerValue, "marker"); err != nil {
		return err
	}
	if err := checkOutput(tx, 1, eval, v.addr.CCAddress(eval, r.Origin), 1, "supply"); err != nil {
		return err
	}
	// Вся эмиссия - на vout1, иначе supply не совпадет с суммой токенов.
	marker := v.addr.UnspendableAddress(eval)
	for i := 2; i < len(tx.Outputs); i++ {
		if carriesTokens(tx.Outputs[i], eval, marker) {
			return cc.Structural(txid, i, "token output outside the supply vout")
		}
	}

	if r.RefTokenID != (chainhash.Hash{}) {
		ref, err := v.load(ctx, tx, r.RefTokenID, "reference token")
		if err != nil {
			return err
		}
		if _, ok := ref.Record.(*opret.TokenCreate); !ok {
			return cc.Linkage(txid, "reference token %s is a %s", r.RefTokenID, opret.TypeName(ref.Record))
		}
	}
	return nil
}

func (v *Validator) tokenTransfer(ctx context.Context, tx *ledger.Tx, r *opret.TokenTransfer) error {
	txid := tx.ID.String()
	eval := v.codec.Modules().Tokens

	if _, err := v.tokenGenesis(ctx, tx, r.TokenID); err != nil {
		return err
	}
	if len(r.Destinations) == 0 {
		return cc.Structural(txid, 0, "transfer has no destination")
	}
	for i, pk := range r.Destinations {
		if !validKey(pk) {
			return cc.BusinessRule(txid, "invalid destination pubkey %d", i)
		}
	}
	dest := v.addr.CCAddress(eval, r.Destinations[0])
	if len(r.Destinations) == 2 {
		dest = v.addr.CC1of2Address(eval, r.Destinations[0], r.Destinations[1])
	}
	if err := checkOutput(tx, 0, eval, dest, 1, "destination"); err != nil {
		return err
	}
	return v.checkConservation(ctx, tx, r.TokenID)
}

func (v *Validator) tokenUpdate(ctx context.Context, tx *ledger.Tx, r *opret.TokenUpdate) error {
	txid := tx.ID.String()
	eval := v.codec.Modules().Tokens

	if _, err := v.tokenGenesis(ctx, tx, r.TokenID); err != nil {
		return err
	}
	if r.LicenseType&^opret.TLFAll != 0 {
		return cc.BusinessRule(txid, "unknown license flags 0x%x", r.LicenseType&^opret.TLFAll)
	}
	if r.Value < 0 {
		return cc.BusinessRule(txid, "negative value")
	}

	steps, err := v.walker.BatonChain(ctx, r.TokenID, chain.TokenPolicy)
	if err != nil {
		return err
	}
	steps = before(steps, tx.ID)
	latest := steps[len(steps)-1]
	baton := chain.BatonOutPoint(r.TokenID, latest, chain.TokenPolicy)
	if err := v.requireSpend(ctx, tx, baton, "token baton"); err != nil {
		return err
	}
	batonOut := latest.Tx.Outputs[baton.Index]
	if err := checkOutput(tx, 0, eval, batonOut.Address, batonOut.Value, "baton"); err != nil {
		return err
	}
	if out := tx.Outputs[0]; out.Value != batonOut.Value {
		return cc.Structural(txid, 0, "baton value changed from %d to %d", batonOut.Value, out.Value)
	}

	if !v.ownsBaton(tx, baton, batonOut, latest.Record) {
		return cc.BusinessRule(txid, "token update is not signed by the baton owner")
	}

	var lastUpdate chainhash.Hash
	for _, s := range steps {
		if _, ok := s.Record.(*opret.TokenUpdate); ok {
			lastUpdate = s.Tx.ID
		}
	}
	if r.PrevUpdateID != lastUpdate {
		return cc.Linkage(txid, "previous update %s, latest is %s", r.PrevUpdateID, lastUpdate)
	}
	return v.checkConservation(ctx, tx, r.TokenID)
}

// tokenGenesis проверяет, что tokenID - транзакция создания токена.
func (v *Validator) tokenGenesis(ctx context.Context, tx *ledger.Tx, tokenID chainhash.Hash) (*opret.TokenCreate, error) {
	step, err := v.load(ctx, tx, tokenID, "token")
	if err != nil {
		return nil, err
	}
	create, ok := step.Record.(*opret.TokenCreate)
	if !ok {
		return nil, cc.Linkage(tx.ID.String(), "token id %s is a %s", tokenID, opret.TypeName(step.Record))
	}
	return create, nil
}

// ownsBaton: вход, тратящий батон, подписан ключом, на чей токен-адрес
// (или общий 1of2 адрес получателей перевода) лежит батон.
func (v *Validator) ownsBaton(tx *ledger.Tx, baton ledger.OutPoint, out ledger.TxOut, holder opret.Record) bool {
	eval := v.codec.Modules().Tokens
	for _, in := range tx.Inputs {
		if in.PrevOut != baton || len(in.Signer) == 0 {
			continue
		}
		if v.addr.CCAddress(eval, in.Signer) == out.Address {
			return true
		}
		if tr, ok := holder.(*opret.TokenTransfer); ok && len(tr.Destinations) == 2 {
			member := bytes.Equal(in.Signer, tr.Destinations[0]) || bytes.Equal(in.Signer, tr.Destinations[1])
			if member && v.addr.CC1of2Address(eval, tr.Destinations[0], tr.Destinations[1]) == out.Address {
				return true
			}
		}
	}
	return false
}
