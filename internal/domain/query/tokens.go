package query

import (
	"context"
	"encoding/hex"
	"sort"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// supplyVout - выход эмиссии в транзакции создания токена.
const supplyVout = 1

func (s *Service) loadCreate(ctx context.Context, tokenID chainhash.Hash) (chain.Step, *opret.TokenCreate, error) {
	step, err := s.walker.Load(ctx, tokenID)
	if err != nil {
		return chain.Step{}, nil, err
	}
	rec, ok := step.Record.(*opret.TokenCreate)
	if !ok {
		return chain.Step{}, nil, cc.Linkage(tokenID.String(), "%s is not a token create", opret.TypeName(step.Record))
	}
	return step, rec, nil
}

func supplyOf(tx *ledger.Tx) int64 {
	out, ok := tx.Output(supplyVout)
	if !ok {
		return 0
	}
	return out.Value
}

func (s *Service) TokenInfo(ctx context.Context, tokenID chainhash.Hash) (*TokenInfo, error) {
	create, rec, err := s.loadCreate(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	steps, err := s.walker.BatonChain(ctx, tokenID, chain.TokenPolicy)
	if err != nil {
		return nil, err
	}

	info := &TokenInfo{
		TokenID:       tokenID,
		Height:        create.Tx.Height,
		Origin:        rec.Origin,
		Name:          rec.Name,
		Description:   rec.Description,
		Supply:        supplyOf(create.Tx),
		OwnerPerc:     rec.OwnerPerc,
		TokenType:     rec.TokenType,
		RefTokenID:    rec.RefTokenID,
		ExpiryTimeSec: rec.ExpiryTimeSec,
		Extensions:    rec.Extensions,
		Holders:       [][]byte{rec.Origin},
	}

	for i := len(steps) - 1; i > 0; i-- {
		if upd, ok := steps[i].Record.(*opret.TokenUpdate); ok {
			info.LatestUpdate = updateView(steps[i].Tx, upd)
			break
		}
	}
	// Обновления не меняют держателя: ищем последний перевод.
	for i := len(steps) - 1; i > 0; i-- {
		if tr, ok := steps[i].Record.(*opret.TokenTransfer); ok {
			info.Holders = tr.Destinations
			break
		}
	}
	return info, nil
}

func (s *Service) TokenList(ctx context.Context) (*TokenList, error) {
	txs, err := s.markers(ctx, s.codec.Modules().Tokens)
	if err != nil {
		return nil, err
	}
	list := &TokenList{Tokens: []TokenSummary{}}
	for _, tx := range txs {
		rec, err := s.codec.DecodeTx(tx)
		if err != nil {
			list.Skipped = s.skip(list.Skipped, tx.ID, err)
			continue
		}
		create, ok := rec.(*opret.TokenCreate)
		if !ok {
			list.Skipped = s.skip(list.Skipped, tx.ID, cc.UnknownType("marker carries %s", opret.TypeName(rec)))
			continue
		}
		list.Tokens = append(list.Tokens, TokenSummary{
			TokenID: tx.ID,
			Name:    create.Name,
			Origin:  create.Origin,
			Supply:  supplyOf(tx),
		})
	}
	sort.Slice(list.Tokens, func(i, j int) bool {
		return list.Tokens[i].TokenID.String() < list.Tokens[j].TokenID.String()
	})
	return list, nil
}

// balancesAt суммирует непотраченные токен-выходы адреса по идентификатору токена.
func (s *Service) balancesAt(ctx context.Context, address string) (map[chainhash.Hash]int64, []Diagnostic, error) {
	outs, err := s.reader.GetOutputsAtAddress(ctx, address)
	if err != nil {
		return nil, nil, err
	}
	eval := s.codec.Modules().Tokens
	balances := make(map[chainhash.Hash]int64)
	decoded := make(map[chainhash.Hash]opret.Record)
	var skipped []Diagnostic

	for _, o := range outs {
		out := o.Output()
		if !out.IsCC() || out.EvalCode != eval {
			continue
		}
		rec, ok := decoded[o.Tx.ID]
		if !ok {
			if rec, err = s.codec.DecodeTx(o.Tx); err != nil {
				skipped = s.skip(skipped, o.Tx.ID, err)
				decoded[o.Tx.ID] = nil
				continue
			}
			decoded[o.Tx.ID] = rec
		}
		if rec == nil {
			continue
		}
		if id, ok := opret.TokenIDOf(rec, o.Tx.ID); ok {
			balances[id] += out.Value
		}
	}
	return balances, skipped, nil
}

func (s *Service) TokenBalance(ctx context.Context, tokenID chainhash.Hash, pubkey []byte) (*Balance, error) {
	if !opret.ValidPubKey(pubkey) {
		return nil, cc.Malformed("invalid pubkey %s", hex.EncodeToString(pubkey))
	}
	create, _, err := s.loadCreate(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	address := s.addr.CCAddress(s.codec.Modules().Tokens, pubkey)
	balances, skipped, err := s.balancesAt(ctx, address)
	if err != nil {
		return nil, err
	}

	b := &Balance{
		TokenID: tokenID,
		PubKey:  pubkey,
		Address: address,
		Balance: balances[tokenID],
		Supply:  supplyOf(create.Tx),
		Skipped: skipped,
	}
	b.Percent = percent(b.Balance, b.Supply)
	return b, nil
}

func (s *Service) TokenOwnershipPercent(ctx context.Context, tokenID chainhash.Hash, pubkey []byte) (float64, error) {
	b, err := s.TokenBalance(ctx, tokenID, pubkey)
	if err != nil {
		return 0, err
	}
	return b.Percent, nil
}

func percent(balance, supply int64) float64 {
	if supply <= 0 {
		return 0
	}
	return float64(balance) / float64(supply) * 100
}

// TokenOwners обходит выходы токена от создания и собирает непотраченные.
// Адреса сопоставляются ключам, встреченным по пути: origin, получатели и подписанты.
// У адресов 1of2 ключ не заполняется.
func (s *Service) TokenOwners(ctx context.Context, tokenID chainhash.Hash, minBalance int64) (*TokenOwners, error) {
	create, rec, err := s.loadCreate(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	eval := s.codec.Modules().Tokens
	marker := s.addr.UnspendableAddress(eval)
	keys := make(map[string][]byte)
	learn := func(pk []byte) {
		if len(pk) > 0 {
			keys[s.addr.CCAddress(eval, pk)] = pk
		}
	}
	learn(rec.Origin)

	res := &TokenOwners{TokenID: tokenID, Owners: []Holding{}}
	holdings := make(map[string]int64)
	visited := map[chainhash.Hash]struct{}{tokenID: {}}
	queue := []*ledger.Tx{create.Tx}

	for len(queue) > 0 {
		tx := queue[0]
		queue = queue[1:]

		for i, out := range tx.Outputs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !out.IsCC() || out.EvalCode != eval || out.Address == marker {
				continue
			}
			spender, err := s.walker.Spender(ctx, tx.ID, uint32(i))
			if err != nil {
				return nil, err
			}
			if spender == nil {
				holdings[out.Address] += out.Value
				continue
			}
			if _, seen := visited[spender.ID]; seen {
				continue
			}
			if len(visited) > s.walker.Ceiling() {
				return nil, cc.Linkage(tokenID.String(), "token graph larger than %d transactions", s.walker.Ceiling())
			}
			visited[spender.ID] = struct{}{}

			srec, err := s.codec.DecodeTx(spender)
			if err != nil {
				res.Skipped = s.skip(res.Skipped, spender.ID, err)
				continue
			}
			if id, ok := opret.TokenIDOf(srec, spender.ID); !ok || id != tokenID {
				res.Skipped = s.skip(res.Skipped, spender.ID, cc.Linkage(spender.ID.String(), "token output spent by %s", opret.TypeName(srec)))
				continue
			}
			for _, in := range spender.Inputs {
				learn(in.Signer)
			}
			if tr, ok := srec.(*opret.TokenTransfer); ok {
				for _, pk := range tr.Destinations {
					learn(pk)
				}
			}
			queue = append(queue, spender)
		}
	}

	for address, balance := range holdings {
		if balance <= 0 || balance < minBalance {
			continue
		}
		res.Owners = append(res.Owners, Holding{PubKey: keys[address], Address: address, Balance: balance})
	}
	sortHoldings(res.Owners)
	return res, nil
}

func sortHoldings(h []Holding) {
	sort.Slice(h, func(i, j int) bool {
		if h[i].Balance != h[j].Balance {
			return h[i].Balance > h[j].Balance
		}
		return h[i].Address < h[j].Address
	})
}

func (s *Service) TokenInventory(ctx context.Context, pubkey []byte, minBalance int64) (*TokenInventory, error) {
	if !opret.ValidPubKey(pubkey) {
		return nil, cc.Malformed("invalid pubkey %s", hex.EncodeToString(pubkey))
	}
	balances, skipped, err := s.balancesAt(ctx, s.addr.CCAddress(s.codec.Modules().Tokens, pubkey))
	if err != nil {
		return nil, err
	}

	inv := &TokenInventory{PubKey: pubkey, Tokens: []InventoryItem{}, Skipped: skipped}
	for id, balance := range balances {
		if balance <= 0 || balance < minBalance {
			continue
		}
		_, rec, err := s.loadCreate(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			inv.Skipped = s.skip(inv.Skipped, id, err)
			continue
		}
		inv.Tokens = append(inv.Tokens, InventoryItem{TokenID: id, Name: rec.Name, Balance: balance})
	}
	sort.Slice(inv.Tokens, func(i, j int) bool {
		if inv.Tokens[i].Balance != inv.Tokens[j].Balance {
			return inv.Tokens[i].Balance > inv.Tokens[j].Balance
		}
		return inv.Tokens[i].TokenID.String() < inv.Tokens[j].TokenID.String()
	})
	return inv, nil
}

// TokenUpdates возвращает обновления токена от последнего к первому.
func (s *Service) TokenUpdates(ctx context.Context, tokenID chainhash.Hash, opts chain.HistoryOptions) ([]TokenUpdateView, error) {
	if _, _, err := s.loadCreate(ctx, tokenID); err != nil {
		return nil, err
	}
	steps, err := s.walker.BatonChain(ctx, tokenID, chain.TokenPolicy)
	if err != nil {
		return nil, err
	}

	var latest chainhash.Hash
	for i := len(steps) - 1; i > 0; i-- {
		if _, ok := steps[i].Record.(*opret.TokenUpdate); ok {
			latest = steps[i].Tx.ID
			break
		}
	}
	views := []TokenUpdateView{}
	if latest == (chainhash.Hash{}) {
		return views, nil
	}

	history, err := s.walker.History(ctx, latest, opts, chain.TokenUpdatePrev)
	if err != nil {
		return nil, err
	}
	for _, st := range history {
		views = append(views, *updateView(st.Tx, st.Record.(*opret.TokenUpdate)))
	}
	return views, nil
}

func updateView(tx *ledger.Tx, r *opret.TokenUpdate) *TokenUpdateView {
	return &TokenUpdateView{
		TxID:         tx.ID,
		Height:       tx.Height,
		PrevUpdateID: r.PrevUpdateID,
		DataHash:     r.DataHash,
		Value:        r.Value,
		CurrencyCode: r.CurrencyCode,
		LicenseType:  r.LicenseType,
	}
}

func (s *Service) TokenOwnerHistory(ctx context.Context, tokenID chainhash.Hash) ([]chain.Owner, error) {
	return s.walker.OwnerHistory(ctx, tokenID)
}

// TokenTagAddress - CC-адрес модуля tokentags для ключа.
func (s *Service) TokenTagAddress(pubkey []byte) (string, error) {
	if !opret.ValidPubKey(pubkey) {
		return "", cc.Malformed("invalid pubkey %s", hex.EncodeToString(pubkey))
	}
	return s.addr.CCAddress(s.codec.Modules().TokenTags, pubkey), nil
}
