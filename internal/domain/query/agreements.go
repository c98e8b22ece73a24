package query

import (
	"bytes"
	"context"
	"encoding/hex"
	"sort"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// responseVout - выход-крючок предложения, который тратит ответ.
const responseVout = 1

// entry - запись соглашения вместе с условиями, из которых берутся стороны.
type entry struct {
	step   chain.Step
	terms  *opret.AgreementProposal
	create *opret.AgreementCreate
}

func (e *entry) name() string {
	switch {
	case e.terms != nil:
		return e.terms.Name
	case e.create != nil:
		return e.create.Name
	}
	return ""
}

func (e *entry) involves(pk []byte) bool {
	var keys [][]byte
	switch {
	case e.terms != nil:
		keys = [][]byte{e.terms.Initiator, e.terms.Receiver, e.terms.Mediator}
	case e.create != nil:
		keys = [][]byte{e.create.Creator, e.create.Client}
	}
	for _, k := range keys {
		if len(k) > 0 && bytes.Equal(k, pk) {
			return true
		}
	}
	return false
}

func (s *Service) loadEntry(ctx context.Context, id chainhash.Hash) (*entry, error) {
	step, err := s.walker.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	e := &entry{step: step}
	switch r := step.Record.(type) {
	case *opret.AgreementProposal:
		e.terms = r
	case *opret.AgreementCreate:
		e.create = r
	case *opret.AgreementSigning:
		terms, err := s.walker.Load(ctx, r.ProposalID)
		if err != nil {
			return nil, err
		}
		p, ok := terms.Record.(*opret.AgreementProposal)
		if !ok {
			return nil, cc.Linkage(id.String(), "agreement accepts a %s", opret.TypeName(terms.Record))
		}
		e.terms = p
	default:
		if step.Record.Module() != cc.ModuleAgreements {
			return nil, cc.UnknownType("%s is a %s record", id, opret.TypeName(step.Record))
		}
	}
	return e, nil
}

func (s *Service) AgreementInfo(ctx context.Context, id chainhash.Hash) (*AgreementInfo, error) {
	e, err := s.loadEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := s.status(ctx, e)
	if err != nil {
		return nil, err
	}

	info := &AgreementInfo{
		TxID:   id,
		Height: e.step.Tx.Height,
		Type:   opret.TypeName(e.step.Record),
		Record: e.step.Record,
		Status: st.Status,
	}
	if _, ok := e.step.Record.(*opret.AgreementSigning); ok {
		info.Terms = e.terms
		updates, err := s.walker.BatonChain(ctx, id, chain.AgreementUpdatePolicy)
		if err != nil {
			return nil, err
		}
		info.Updates = len(updates) - 1
		for _, genesis := range []uint32{chain.InitiatorDisputeVout, chain.ReceiverDisputeVout} {
			disputes, err := s.walker.BatonChain(ctx, id, chain.DisputePolicy(genesis))
			if err != nil {
				return nil, err
			}
			info.Disputes += len(disputes) - 1
		}
	}
	return info, nil
}

// AgreementStatus выводит состояние из голов батонов. Для контракта
// приоритет: terminated, disputed, resolved, updated, active.
func (s *Service) AgreementStatus(ctx context.Context, id chainhash.Hash) (*AgreementStatus, error) {
	e, err := s.loadEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.status(ctx, e)
}

func (s *Service) status(ctx context.Context, e *entry) (*AgreementStatus, error) {
	id := e.step.Tx.ID
	res := &AgreementStatus{TxID: id, OpenDisputes: []chainhash.Hash{}}

	switch r := e.step.Record.(type) {
	case *opret.AgreementProposal:
		st, err := s.proposalStatus(ctx, id, r)
		if err != nil {
			return nil, err
		}
		res.Status = st
	case *opret.AgreementClose:
		res.Status = StatusClosed
	case *opret.AgreementCreate:
		res.Status = StatusActive
	case *opret.AgreementUpdate:
		res.Status = StatusUpdated
		if r.UpdateType == opret.UpdateTerminate {
			res.Status = StatusTerminated
		}
	case *opret.AgreementDispute:
		res.Status = StatusResolved
		open, err := s.disputeOpen(ctx, id)
		if err != nil {
			return nil, err
		}
		if open {
			res.Status = StatusDisputed
			res.OpenDisputes = append(res.OpenDisputes, id)
		}
	case *opret.AgreementResolve:
		res.Status = StatusResolved
	case *opret.AgreementSigning:
		if err := s.contractStatus(ctx, id, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Service) contractStatus(ctx context.Context, id chainhash.Hash, res *AgreementStatus) error {
	updates, err := s.walker.BatonChain(ctx, id, chain.AgreementUpdatePolicy)
	if err != nil {
		return err
	}
	head := updates[len(updates)-1]
	res.LatestUpdate = head.Tx.ID

	disputed := false
	for _, genesis := range []uint32{chain.InitiatorDisputeVout, chain.ReceiverDisputeVout} {
		steps, err := s.walker.BatonChain(ctx, id, chain.DisputePolicy(genesis))
		if err != nil {
			return err
		}
		last := steps[len(steps)-1]
		if last.Tx.ID == id {
			continue
		}
		disputed = true
		open, err := s.disputeOpen(ctx, last.Tx.ID)
		if err != nil {
			return err
		}
		if open {
			res.OpenDisputes = append(res.OpenDisputes, last.Tx.ID)
		}
	}

	upd, _ := head.Record.(*opret.AgreementUpdate)
	switch {
	case upd != nil && upd.UpdateType == opret.UpdateTerminate:
		res.Status = StatusTerminated
	case len(res.OpenDisputes) > 0:
		res.Status = StatusDisputed
	case disputed:
		res.Status = StatusResolved
	case upd != nil:
		res.Status = StatusUpdated
	default:
		res.Status = StatusActive
	}
	return nil
}

// disputeOpen: крючок спора (vout1) еще не потрачен решением.
func (s *Service) disputeOpen(ctx context.Context, id chainhash.Hash) (bool, error) {
	spender, err := s.walker.Spender(ctx, id, 1)
	if err != nil {
		return false, err
	}
	return spender == nil, nil
}

func (s *Service) proposalStatus(ctx context.Context, id chainhash.Hash, r *opret.AgreementProposal) (Status, error) {
	spender, err := s.walker.Spender(ctx, id, responseVout)
	if err != nil {
		return "", err
	}
	if spender == nil {
		if len(r.Receiver) > 0 {
			return StatusPending, nil
		}
		return StatusDraft, nil
	}
	rec, err := s.codec.DecodeTx(spender)
	if err != nil {
		return "", err
	}
	switch rec.(type) {
	case *opret.AgreementProposal:
		return StatusAmended, nil
	case *opret.AgreementClose:
		return StatusClosed, nil
	case *opret.AgreementSigning, *opret.AgreementUpdate:
		return StatusAccepted, nil
	}
	return "", cc.Linkage(spender.ID.String(), "proposal response spent by %s", opret.TypeName(rec))
}

func (s *Service) AgreementList(ctx context.Context) (*AgreementList, error) {
	return s.listAgreements(ctx, nil)
}

func (s *Service) AgreementInventory(ctx context.Context, pubkey []byte) (*AgreementList, error) {
	if !opret.ValidPubKey(pubkey) {
		return nil, cc.Malformed("invalid pubkey %s", hex.EncodeToString(pubkey))
	}
	return s.listAgreements(ctx, pubkey)
}

// listAgreements перечисляет маркеры модуля. Если pubkey задан, остаются
// только записи, где ключ - одна из сторон или посредник.
func (s *Service) listAgreements(ctx context.Context, pubkey []byte) (*AgreementList, error) {
	txs, err := s.markers(ctx, s.codec.Modules().Agreements)
	if err != nil {
		return nil, err
	}
	list := &AgreementList{Agreements: []AgreementSummary{}}
	for _, tx := range txs {
		e, err := s.loadEntry(ctx, tx.ID)
		if err == nil {
			var st *AgreementStatus
			if st, err = s.status(ctx, e); err == nil {
				if pubkey != nil && !e.involves(pubkey) {
					continue
				}
				list.Agreements = append(list.Agreements, AgreementSummary{
					TxID:   tx.ID,
					Type:   opret.TypeName(e.step.Record),
					Name:   e.name(),
					Status: st.Status,
				})
				continue
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		list.Skipped = s.skip(list.Skipped, tx.ID, err)
	}
	sort.Slice(list.Agreements, func(i, j int) bool {
		return list.Agreements[i].TxID.String() < list.Agreements[j].TxID.String()
	})
	return list, nil
}

func (s *Service) loadContract(ctx context.Context, id chainhash.Hash) error {
	step, err := s.walker.Load(ctx, id)
	if err != nil {
		return err
	}
	if _, ok := step.Record.(*opret.AgreementSigning); !ok {
		return cc.Linkage(id.String(), "%s is not a signed agreement", opret.TypeName(step.Record))
	}
	return nil
}

// AgreementUpdates возвращает обновления контракта от последнего к первому.
func (s *Service) AgreementUpdates(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]RecordView, error) {
	if err := s.loadContract(ctx, id); err != nil {
		return nil, err
	}
	latest, err := s.walker.LatestUpdate(ctx, id, chain.AgreementUpdatePolicy)
	if err != nil {
		return nil, err
	}
	if latest.Tx.ID == id {
		return []RecordView{}, nil
	}
	steps, err := s.walker.History(ctx, latest.Tx.ID, opts, chain.AgreementUpdatePrev)
	if err != nil {
		return nil, err
	}
	return views(steps), nil
}

// AgreementDisputes объединяет споры обеих сторон, новые первыми.
func (s *Service) AgreementDisputes(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]DisputeView, error) {
	if err := s.loadContract(ctx, id); err != nil {
		return nil, err
	}

	out := []DisputeView{}
	for _, genesis := range []uint32{chain.InitiatorDisputeVout, chain.ReceiverDisputeVout} {
		latest, err := s.walker.LatestUpdate(ctx, id, chain.DisputePolicy(genesis))
		if err != nil {
			return nil, err
		}
		if latest.Tx.ID == id {
			continue
		}
		steps, err := s.walker.History(ctx, latest.Tx.ID, opts, chain.DisputePrev)
		if err != nil {
			return nil, err
		}
		for _, st := range steps {
			d := st.Record.(*opret.AgreementDispute)
			v := DisputeView{
				TxID:      st.Tx.ID,
				Height:    st.Tx.Height,
				Initiator: d.Initiator,
				Type:      d.DisputeType,
				Hash:      d.DisputeHash,
			}
			resolution, err := s.walker.Spender(ctx, st.Tx.ID, 1)
			if err != nil {
				return nil, err
			}
			if resolution != nil {
				v.Resolution = resolution.ID
			}
			out = append(out, v)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Height != out[j].Height {
			return out[i].Height > out[j].Height
		}
		return out[i].TxID.String() < out[j].TxID.String()
	})
	if !opts.Recursive && opts.MaxSamples > 0 && len(out) > opts.MaxSamples {
		out = out[:opts.MaxSamples]
	}
	return out, nil
}

// ProposalHistory идет от предложения назад по цепочке поправок.
func (s *Service) ProposalHistory(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]RecordView, error) {
	steps, err := s.walker.History(ctx, id, opts, chain.ProposalPrev)
	if err != nil {
		return nil, err
	}
	return views(steps), nil
}
