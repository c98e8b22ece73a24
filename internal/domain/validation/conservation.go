package validation

import (
	"context"
	"fmt"
	"math"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// traceDepth - насколько глубоко проверяются источники токенов.
const traceDepth = 1

type traceItem struct {
	tx    *ledger.Tx
	depth int
}

// checkConservation сверяет сумму токенов на входах и выходах кандидата
// и его непосредственных источников. Обход итеративный, каждая транзакция
// проверяется один раз.
func (v *Validator) checkConservation(ctx context.Context, tx *ledger.Tx, tokenID chainhash.Hash) error {
	eval := v.codec.Modules().Tokens
	marker := v.addr.UnspendableAddress(eval)

	visited := map[chainhash.Hash]struct{}{tx.ID: {}}
	work := []traceItem{{tx: tx}}

	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := work[len(work)-1]
		work = work[:len(work)-1]
		cur := item.tx
		txid := cur.ID.String()

		rec, err := v.codec.DecodeTx(cur)
		if err != nil {
			return err
		}
		if _, ok := rec.(*opret.TokenCreate); ok {
			// Эмиссия: токенов на входах нет, маркер их не несет.
			continue
		}

		var in, out int64
		seen := make(map[ledger.OutPoint]struct{}, len(cur.Inputs))
		for _, input := range cur.Inputs {
			if _, dup := seen[input.PrevOut]; dup {
				return cc.Structural(txid, cc.NoVout, "duplicate input %s:%d", input.PrevOut.Hash, input.PrevOut.Index)
			}
			seen[input.PrevOut] = struct{}{}

			src, prev, ok, err := v.sourceOutput(ctx, input)
			if err != nil {
				return err
			}
			if !ok || !carriesTokens(prev, eval, marker) {
				continue
			}
			srcRec, err := v.codec.DecodeTx(src)
			if err != nil {
				return err
			}
			if id, ok := opret.TokenIDOf(srcRec, src.ID); !ok || id != tokenID {
				return cc.BusinessRule(txid, "input %s:%d carries another token", input.PrevOut.Hash, input.PrevOut.Index)
			}
			if in, err = addValue(in, prev.Value); err != nil {
				return cc.Structural(txid, cc.NoVout, "token inputs: %v", err)
			}

			if _, done := visited[src.ID]; !done && item.depth < traceDepth {
				visited[src.ID] = struct{}{}
				work = append(work, traceItem{tx: src, depth: item.depth + 1})
			}
		}
		for i, o := range cur.Outputs {
			if !carriesTokens(o, eval, marker) {
				continue
			}
			if out, err = addValue(out, o.Value); err != nil {
				return cc.Structural(txid, i, "token outputs: %v", err)
			}
		}

		if item.depth == 0 && in == 0 {
			return cc.Structural(txid, cc.NoVout, "no token inputs")
		}
		if in != out {
			return cc.Structural(txid, cc.NoVout, "token inputs %d do not match outputs %d", in, out)
		}
	}
	return nil
}

// addValue складывает неотрицательные суммы без переполнения int64.
func addValue(sum, v int64) (int64, error) {
	if v < 0 {
		return sum, fmt.Errorf("negative value %d", v)
	}
	if sum > math.MaxInt64-v {
		return sum, fmt.Errorf("sum overflows int64")
	}
	return sum + v, nil
}

// carriesTokens: CC-выход модуля токенов, кроме маркеров на неиспользуемом адресе.
func carriesTokens(out ledger.TxOut, eval uint8, marker string) bool {
	return out.IsCC() && out.EvalCode == eval && out.Address != marker
}
