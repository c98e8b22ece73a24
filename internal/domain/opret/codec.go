package opret

import (
	"fmt"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"

	"golang.org/x/exp/slog"
)

// headerLen - eval-код модуля и funcid.
const headerLen = 2

// Codec кодирует и декодирует записи opret для заданного набора модулей.
// Не хранит изменяемого состояния и безопасен для конкурентного использования.
type Codec struct {
	modules cc.Modules
	log     *slog.Logger
}

func NewCodec(modules cc.Modules, log *slog.Logger) *Codec {
	return &Codec{
		modules: modules,
		log:     log.With("component", "opret_codec"),
	}
}

func (c *Codec) Modules() cc.Modules {
	return c.modules
}

// Encode сериализует запись: eval-код, funcid, затем поля типа.
func (c *Codec) Encode(rec Record) ([]byte, error) {
	if rec == nil {
		return nil, cc.Malformed("nil record")
	}
	eval, ok := c.modules.EvalCode(rec.Module())
	if !ok {
		return nil, cc.UnknownType("module %s", rec.Module())
	}

	w := &writer{}
	w.uint8(eval)
	w.uint8(rec.FuncID())

	var err error
	switch r := rec.(type) {
	case *TokenCreate:
		err = encodeTokenCreate(w, r)
	case *TokenTransfer:
		err = encodeTokenTransfer(w, r)
	case *TokenUpdate:
		err = encodeTokenUpdate(w, r)
	case *AgreementProposal:
		err = encodeProposal(w, r)
	case *AgreementClose:
		err = encodeClose(w, r)
	case *AgreementSigning:
		err = encodeSigning(w, r)
	case *AgreementCreate:
		err = encodeAgreementCreate(w, r)
	case *AgreementUpdate:
		err = encodeAgreementUpdate(w, r)
	case *AgreementDispute:
		err = encodeDispute(w, r)
	case *AgreementResolve:
		err = encodeResolve(w, r)
	default:
		return nil, cc.UnknownType("record type %T", rec)
	}
	if err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

// Decode разбирает полезную нагрузку opret. Никогда не паникует:
// любой сбой возвращается как *cc.DomainError.
func (c *Codec) Decode(b []byte) (Record, error) {
	if len(b) < headerLen {
		return nil, cc.Malformed("payload of %d bytes is shorter than header", len(b))
	}
	module, ok := c.modules.Lookup(b[0])
	if !ok {
		return nil, cc.UnknownType("eval code 0x%02x", b[0])
	}
	switch module {
	case cc.ModuleTokens:
		return c.decodeTokens(b)
	case cc.ModuleAgreements:
		return c.decodeAgreements(b)
	}
	return nil, cc.UnknownType("module %s carries no records", module)
}

// DecodeTx декодирует opret из последнего выхода транзакции.
func (c *Codec) DecodeTx(tx *ledger.Tx) (Record, error) {
	data, ok := tx.OpReturn()
	if !ok {
		return nil, cc.WithTx(cc.Malformed("transaction has no opret"), tx.ID.String())
	}
	rec, err := c.Decode(data)
	if err != nil {
		return nil, cc.WithTx(err, tx.ID.String())
	}
	return rec, nil
}

func (c *Codec) decodeTokens(b []byte) (Record, error) {
	switch b[1] {
	case FuncTokenCreate:
		r := newReader(b)
		r.off = headerLen
		rec, err := decodeTokenCreate(r)
		return finish(rec, err, r)
	case FuncTokenTransfer:
		rec, err := decodeTokenTransferStrict(b)
		if err == nil {
			return rec, nil
		}
		if legacy, ok := decodeLegacyTransferTail(b, c.modules.Assets); ok {
			c.log.Debug("decoded legacy transfer data",
				"token_id", legacy.TokenID.String(),
				"extension", legacy.Extensions[0].ID.String())
			return legacy, nil
		}
		return nil, err
	case FuncTokenUpdate:
		r := newReader(b)
		r.off = headerLen
		rec, err := decodeTokenUpdate(r)
		return finish(rec, err, r)
	}
	return nil, cc.UnknownType("tokens funcid %s", funcName(b[1]))
}

func (c *Codec) decodeAgreements(b []byte) (Record, error) {
	r := newReader(b)
	r.off = headerLen
	switch b[1] {
	case FuncProposal:
		rec, err := decodeProposal(r)
		return finish(rec, err, r)
	case FuncProposalClose:
		rec, err := decodeClose(r)
		return finish(rec, err, r)
	case FuncContract:
		rec, err := decodeSigning(r)
		return finish(rec, err, r)
	case FuncAgreementCreate:
		rec, err := decodeAgreementCreate(r)
		return finish(rec, err, r)
	case FuncAgreementUpdate:
		rec, err := decodeAgreementUpdate(r)
		return finish(rec, err, r)
	case FuncDispute:
		rec, err := decodeDispute(r)
		return finish(rec, err, r)
	case FuncResolve:
		rec, err := decodeResolve(r)
		return finish(rec, err, r)
	}
	return nil, cc.UnknownType("agreements funcid %s", funcName(b[1]))
}

// finish требует, чтобы декодер дочитал буфер до конца.
func finish[T Record](rec T, err error, r *reader) (Record, error) {
	if err != nil {
		return nil, err
	}
	if !r.eof() {
		return nil, cc.Malformed("%d trailing bytes after %s", r.remaining(), TypeName(rec))
	}
	return rec, nil
}

func funcName(f byte) string {
	if f >= 0x20 && f < 0x7f {
		return fmt.Sprintf("'%c'", f)
	}
	return fmt.Sprintf("0x%02x", f)
}
