package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/exp/slog"
)

// Validator проверяет транзакцию-кандидата по правилам модулей.
// Читает только саму транзакцию и данные коллаборатора, поэтому
// безопасен для конкурентного использования.
type Validator struct {
	reader ledger.Reader
	codec  *opret.Codec
	addr   ledger.Addresser
	walker *chain.Walker
	log    *slog.Logger
}

func NewValidator(reader ledger.Reader, codec *opret.Codec, addr ledger.Addresser, walker *chain.Walker, log *slog.Logger) *Validator {
	return &Validator{
		reader: reader,
		codec:  codec,
		addr:   addr,
		walker: walker,
		log:    log.With("component", "validator"),
	}
}

// Validate декодирует opret и применяет правила модуля, которому принадлежит запись.
func (v *Validator) Validate(ctx context.Context, tx *ledger.Tx) (State, error) {
	if err := checkValues(tx); err != nil {
		return "", err
	}
	rec, err := v.codec.DecodeTx(tx)
	if err != nil {
		return "", err
	}
	var state State
	switch rec.Module() {
	case cc.ModuleTokens:
		state, err = v.validateTokens(ctx, tx, rec)
	case cc.ModuleAgreements:
		state, err = v.validateAgreements(ctx, tx, rec)
	default:
		err = cc.UnknownType("no rules for module %s", rec.Module())
	}
	v.report(tx, rec, state, err)
	return state, err
}

// ValidateTokens принимает только записи модуля токенов.
func (v *Validator) ValidateTokens(ctx context.Context, tx *ledger.Tx) (State, error) {
	rec, err := v.decodeFor(tx, cc.ModuleTokens)
	if err != nil {
		return "", err
	}
	state, err := v.validateTokens(ctx, tx, rec)
	v.report(tx, rec, state, err)
	return state, err
}

// ValidateAgreements принимает только записи модуля соглашений.
func (v *Validator) ValidateAgreements(ctx context.Context, tx *ledger.Tx) (State, error) {
	rec, err := v.decodeFor(tx, cc.ModuleAgreements)
	if err != nil {
		return "", err
	}
	state, err := v.validateAgreements(ctx, tx, rec)
	v.report(tx, rec, state, err)
	return state, err
}

func (v *Validator) decodeFor(tx *ledger.Tx, module cc.Module) (opret.Record, error) {
	if err := checkValues(tx); err != nil {
		return nil, err
	}
	rec, err := v.codec.DecodeTx(tx)
	if err != nil {
		return nil, err
	}
	if rec.Module() != module {
		return nil, cc.WithTx(cc.UnknownType("%s record is not handled by %s rules", opret.TypeName(rec), module), tx.ID.String())
	}
	return rec, nil
}

func (v *Validator) report(tx *ledger.Tx, rec opret.Record, state State, err error) {
	if err != nil {
		v.log.Info("transaction rejected", "txid", tx.ID, "type", opret.TypeName(rec), "kind", cc.KindOf(err), "error", err)
		return
	}
	v.log.Debug("transaction accepted", "txid", tx.ID, "type", opret.TypeName(rec), "state", state)
}

// load читает и декодирует связанную транзакцию. Любая ошибка разбора
// ссылки превращается в LinkageViolation кандидата.
func (v *Validator) load(ctx context.Context, tx *ledger.Tx, id chainhash.Hash, what string) (chain.Step, error) {
	step, err := v.walker.Load(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return chain.Step{}, err
		}
		return chain.Step{}, cc.Linkage(tx.ID.String(), "%s %s: %v", what, id, err)
	}
	return step, nil
}

// sourceOutput возвращает выход, который тратит вход. ok == false, если
// исходной транзакции нет в индексе: такой вход считается обычной монетой.
func (v *Validator) sourceOutput(ctx context.Context, in ledger.TxIn) (*ledger.Tx, ledger.TxOut, bool, error) {
	src, err := v.reader.GetTransaction(ctx, in.PrevOut.Hash)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ledger.TxOut{}, false, nil
	}
	if err != nil {
		return nil, ledger.TxOut{}, false, fmt.Errorf("load input source %s: %w", in.PrevOut.Hash, err)
	}
	out, ok := src.Output(in.PrevOut.Index)
	if !ok {
		return nil, ledger.TxOut{}, false, cc.Structural(src.ID.String(), int(in.PrevOut.Index), "input spends missing output")
	}
	return src, out, true, nil
}

// requireSpend проверяет, что tx тратит выход и что больше никто его не тратит.
func (v *Validator) requireSpend(ctx context.Context, tx *ledger.Tx, op ledger.OutPoint, what string) error {
	if !tx.Spends(op) {
		return cc.Linkage(tx.ID.String(), "%s %s:%d is not spent", what, op.Hash, op.Index)
	}
	spender, err := v.walker.Spender(ctx, op.Hash, op.Index)
	if err != nil {
		return err
	}
	if spender != nil && spender.ID != tx.ID {
		return cc.Linkage(tx.ID.String(), "%s %s:%d already spent by %s", what, op.Hash, op.Index, spender.ID)
	}
	return nil
}

// spentElsewhere сообщает, потрачен ли выход другой транзакцией.
func (v *Validator) spentElsewhere(ctx context.Context, tx *ledger.Tx, op ledger.OutPoint) (bool, error) {
	spender, err := v.walker.Spender(ctx, op.Hash, op.Index)
	if err != nil {
		return false, err
	}
	return spender != nil && spender.ID != tx.ID, nil
}

// checkOutput сверяет выход с ожидаемым адресом, eval-кодом и минимальной суммой.
func checkOutput(tx *ledger.Tx, vout int, eval uint8, address string, minValue int64, what string) error {
	out, ok := tx.Output(uint32(vout))
	if !ok || out.IsOpReturn() {
		return cc.Structural(tx.ID.String(), vout, "missing %s output", what)
	}
	if out.EvalCode != eval {
		return cc.Structural(tx.ID.String(), vout, "%s output has eval code 0x%02x, want 0x%02x", what, out.EvalCode, eval)
	}
	if out.Address != address {
		return cc.Structural(tx.ID.String(), vout, "%s output pays to %s, want %s", what, out.Address, address)
	}
	if out.Value < minValue {
		return cc.Structural(tx.ID.String(), vout, "%s output value %d below %d", what, out.Value, minValue)
	}
	return nil
}

// checkPayment - обычный выход с точной суммой.
func checkPayment(tx *ledger.Tx, vout int, address string, value int64, what string) error {
	out, ok := tx.Output(uint32(vout))
	if !ok || out.IsOpReturn() {
		return cc.Structural(tx.ID.String(), vout, "missing %s output", what)
	}
	if out.Address != address || out.Value != value {
		return cc.Structural(tx.ID.String(), vout, "%s output must pay %d to %s", what, value, address)
	}
	return nil
}

func validKey(pk []byte) bool {
	return opret.ValidPubKey(pk)
}

func samePair(a1, a2, b1, b2 []byte) bool {
	return (bytes.Equal(a1, b1) && bytes.Equal(a2, b2)) || (bytes.Equal(a1, b2) && bytes.Equal(a2, b1))
}

// before отрезает от цепочки саму транзакцию-кандидата и все, что после нее,
// если кандидат уже проиндексирован.
func before(steps []chain.Step, id chainhash.Hash) []chain.Step {
	for i, s := range steps {
		if i > 0 && s.Tx.ID == id {
			return steps[:i]
		}
	}
	return steps
}

// checkValues: суммы выходов неотрицательны.
func checkValues(tx *ledger.Tx) error {
	for i, out := range tx.Outputs {
		if out.Value < 0 {
			return cc.Structural(tx.ID.String(), i, "negative output value %d", out.Value)
		}
	}
	return nil
}
