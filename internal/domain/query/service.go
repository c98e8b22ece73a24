package query

import (
	"context"

	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/exp/slog"
)

type TokenQuerier interface {
	TokenInfo(ctx context.Context, tokenID chainhash.Hash) (*TokenInfo, error)
	TokenList(ctx context.Context) (*TokenList, error)
	TokenBalance(ctx context.Context, tokenID chainhash.Hash, pubkey []byte) (*Balance, error)
	TokenOwners(ctx context.Context, tokenID chainhash.Hash, minBalance int64) (*TokenOwners, error)
	TokenInventory(ctx context.Context, pubkey []byte, minBalance int64) (*TokenInventory, error)
	TokenUpdates(ctx context.Context, tokenID chainhash.Hash, opts chain.HistoryOptions) ([]TokenUpdateView, error)
	TokenOwnershipPercent(ctx context.Context, tokenID chainhash.Hash, pubkey []byte) (float64, error)
	TokenOwnerHistory(ctx context.Context, tokenID chainhash.Hash) ([]chain.Owner, error)
	TokenTagAddress(pubkey []byte) (string, error)
}

type AgreementQuerier interface {
	AgreementInfo(ctx context.Context, id chainhash.Hash) (*AgreementInfo, error)
	AgreementList(ctx context.Context) (*AgreementList, error)
	AgreementInventory(ctx context.Context, pubkey []byte) (*AgreementList, error)
	AgreementStatus(ctx context.Context, id chainhash.Hash) (*AgreementStatus, error)
	AgreementUpdates(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]RecordView, error)
	AgreementDisputes(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]DisputeView, error)
	ProposalHistory(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]RecordView, error)
}

// Servicer - API запросов к индексу леджера, только чтение.
type Servicer interface {
	TokenQuerier
	AgreementQuerier
}

// Service строит проекции поверх обходчика цепочек и ничего не изменяет.
type Service struct {
	reader ledger.Reader
	codec  *opret.Codec
	addr   ledger.Addresser
	walker *chain.Walker
	log    *slog.Logger
}

var _ Servicer = (*Service)(nil)

func NewService(reader ledger.Reader, codec *opret.Codec, addr ledger.Addresser, walker *chain.Walker, log *slog.Logger) *Service {
	return &Service{
		reader: reader,
		codec:  codec,
		addr:   addr,
		walker: walker,
		log:    log.With("component", "query_service"),
	}
}

// markers перечисляет транзакции с маркером (vout0) на неиспользуемом адресе модуля.
func (s *Service) markers(ctx context.Context, eval uint8) ([]*ledger.Tx, error) {
	outs, err := s.reader.GetOutputsAtAddress(ctx, s.addr.UnspendableAddress(eval))
	if err != nil {
		return nil, err
	}
	txs := make([]*ledger.Tx, 0, len(outs))
	for _, o := range outs {
		if o.Index == 0 {
			txs = append(txs, o.Tx)
		}
	}
	return txs, nil
}

func (s *Service) skip(skipped []Diagnostic, id chainhash.Hash, err error) []Diagnostic {
	s.log.Warn("record skipped", "txid", id, "error", err)
	return append(skipped, Diagnostic{TxID: id, Reason: err.Error()})
}

func views(steps []chain.Step) []RecordView {
	out := make([]RecordView, 0, len(steps))
	for _, st := range steps {
		out = append(out, RecordView{TxID: st.Tx.ID, Height: st.Tx.Height, Record: st.Record})
	}
	return out
}
