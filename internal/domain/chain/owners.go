package chain

import (
	"context"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Owner - ключ, получивший токены в транзакции TxID.
type Owner struct {
	PubKey []byte
	TxID   chainhash.Hash
}

// OwnerHistory обходит в ширину все выходы с токенами начиная с создания
// и возвращает получателей в порядке цепочки. Создание входит в результат
// как (origin, tokenID).
func (w *Walker) OwnerHistory(ctx context.Context, tokenID chainhash.Hash) ([]Owner, error) {
	create, err := w.Load(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	rec, ok := create.Record.(*opret.TokenCreate)
	if !ok {
		return nil, cc.Linkage(tokenID.String(), "%s is not a token create", opret.TypeName(create.Record))
	}

	tokensEval := w.codec.Modules().Tokens
	marker := w.addr.UnspendableAddress(tokensEval)

	owners := []Owner{{PubKey: rec.Origin, TxID: tokenID}}
	visited := map[chainhash.Hash]struct{}{tokenID: {}}
	queue := []*ledger.Tx{create.Tx}

	for len(queue) > 0 {
		tx := queue[0]
		queue = queue[1:]

		for i, out := range tx.Outputs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !carriesTokens(out, tokensEval, marker) {
				continue
			}
			spender, err := w.Spender(ctx, tx.ID, uint32(i))
			if err != nil {
				return nil, err
			}
			if spender == nil {
				continue
			}
			if _, seen := visited[spender.ID]; seen {
				continue
			}
			if len(visited) > w.ceiling {
				return nil, cc.Linkage(tokenID.String(), "owner history longer than %d transactions", w.ceiling)
			}
			visited[spender.ID] = struct{}{}

			srec, err := w.codec.DecodeTx(spender)
			if err != nil {
				return nil, err
			}
			id, ok := opret.TokenIDOf(srec, spender.ID)
			if !ok || id != tokenID {
				return nil, cc.Linkage(spender.ID.String(), "token output spent by unrelated %s record", opret.TypeName(srec))
			}
			if tr, ok := srec.(*opret.TokenTransfer); ok {
				for _, pk := range tr.Destinations {
					owners = append(owners, Owner{PubKey: pk, TxID: spender.ID})
				}
			}
			queue = append(queue, spender)
		}
	}
	return owners, nil
}

// carriesTokens: CC-выход модуля токенов, кроме маркера на неиспользуемом адресе.
func carriesTokens(out ledger.TxOut, tokensEval uint8, marker string) bool {
	return out.IsCC() && out.EvalCode == tokensEval && out.Address != marker
}
