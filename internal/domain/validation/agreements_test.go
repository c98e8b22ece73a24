package validation_test

import (
	"context"
	"testing"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/ledger/ledgertest"
	"antaracc/internal/domain/opret"
	"antaracc/internal/domain/validation"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// agreementFixture - подписанный контракт A→B с посредником M (или без него).
type agreementFixture struct {
	b        *ledgertest.Builder
	v        *validation.Validator
	a, r, m  []byte
	terms    *opret.AgreementProposal
	proposal *ledger.Tx
	contract *ledger.Tx
}

func newAgreement(t *testing.T, withMediator bool) *agreementFixture {
	t.Helper()
	b := ledgertest.New(t)
	f := &agreementFixture{b: b, v: newValidator(b), a: ledgertest.Key(1), r: ledgertest.Key(2)}
	if withMediator {
		f.m = ledgertest.Key(3)
	}
	f.terms = ledgertest.ProposalRecord(f.a, f.r, f.m)
	f.proposal = accept(t, b, f.v, b.Propose(f.terms), validation.ProposalDraft)
	f.contract = accept(t, b, f.v, b.Sign(f.proposal, f.terms), validation.ContractActive)
	return f
}

// propose индексирует предложение изменения контракта от from к to.
func (f *agreementFixture) propose(t *testing.T, kind byte, from, to []byte, cut int64) (*ledger.Tx, *opret.AgreementProposal) {
	t.Helper()
	rec := ledgertest.AmendmentRecord(kind, from, to, f.contract.ID, cut)
	return accept(t, f.b, f.v, f.b.Propose(rec), validation.ProposalDraft), rec
}

func TestAgreements_Scenario(t *testing.T) {
	f := newAgreement(t, true)
	ctx := context.Background()

	// A предлагает изменение, B подтверждает.
	q, qrec := f.propose(t, opret.ProposalUpdate, f.a, f.r, 0)
	u1 := accept(t, f.b, f.v, f.b.UpdateAgreement(ledgertest.UpdateParams{
		Contract:  f.terms,
		Baton:     ledgertest.Spend(f.contract, 1, f.r),
		Proposal:  q,
		Record:    qrec,
		Confirmer: f.r,
	}), validation.ContractUpdated)

	// A открывает спор, M решает его в пользу B и отдает депозит.
	d1 := accept(t, f.b, f.v, f.b.Dispute(f.contract.ID, f.a, f.m,
		ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.a), chainhash.Hash{}, f.terms.MediatorFee),
		validation.ContractDisputed)
	deposit := ledgertest.Spend(f.contract, 4, f.m)
	accept(t, f.b, f.v, f.b.Resolve(d1, f.m, f.r, &deposit, f.terms.Deposit), validation.ContractResolved)

	// Повторный спор после решения допустим.
	d2 := accept(t, f.b, f.v, f.b.Dispute(f.contract.ID, f.a, f.m,
		ledgertest.Spend(d1, 0, f.a), d1.ID, f.terms.MediatorFee), validation.ContractDisputed)
	// Депозит уже выдан, второе решение выплат не требует.
	accept(t, f.b, f.v, f.b.Resolve(d2, f.m, f.a, nil, 0), validation.ContractResolved)

	// B предлагает расторжение, A подтверждает.
	tq, trec := f.propose(t, opret.ProposalTerminate, f.r, f.a, 50)
	accept(t, f.b, f.v, f.b.UpdateAgreement(ledgertest.UpdateParams{
		Contract:     f.terms,
		Baton:        ledgertest.Spend(u1, 0, f.a),
		Proposal:     tq,
		Record:       trec,
		LastUpdateID: u1.ID,
		Confirmer:    f.a,
	}), validation.ContractTerminated)

	// После расторжения новые предложения к контракту не принимаются.
	late := f.b.Propose(ledgertest.AmendmentRecord(opret.ProposalUpdate, f.a, f.r, f.contract.ID, 0))
	_, err := f.v.Validate(ctx, late)
	assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
}

func TestAgreements_TerminationPaysDeposit(t *testing.T) {
	tests := []struct {
		name   string
		cut    int64
		mutate func(tx *ledger.Tx)
		want   error
	}{
		{name: "even split", cut: 50},
		{name: "all to receiver", cut: 100},
		{
			name: "wrong initiator share",
			cut:  50,
			mutate: func(tx *ledger.Tx) {
				tx.Outputs[1].Value--
			},
			want: cc.ErrStructuralViolation,
		},
		{
			name: "deposit not spent",
			cut:  50,
			mutate: func(tx *ledger.Tx) {
				tx.Inputs = tx.Inputs[:len(tx.Inputs)-1]
			},
			want: cc.ErrLinkageViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAgreement(t, true)
			tq, trec := f.propose(t, opret.ProposalTerminate, f.r, f.a, tt.cut)
			deposit := ledgertest.Spend(f.contract, 4, f.a)
			tx := f.b.UpdateAgreement(ledgertest.UpdateParams{
				Contract:  f.terms,
				Baton:     ledgertest.Spend(f.contract, 1, f.a),
				Proposal:  tq,
				Record:    trec,
				Confirmer: f.a,
				Deposit:   &deposit,
				Amount:    f.terms.Deposit,
			})
			if tt.mutate != nil {
				tt.mutate(tx)
			}

			state, err := f.v.Validate(context.Background(), tx)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, validation.ContractTerminated, state)
		})
	}
}

func TestAgreements_TerminationSplitRemainder(t *testing.T) {
	b := ledgertest.New(t)
	v := newValidator(b)
	a, r, m := ledgertest.Key(1), ledgertest.Key(2), ledgertest.Key(3)

	terms := ledgertest.ProposalRecord(a, r, m)
	terms.Deposit = cc.MinDeposit + 1
	proposal := accept(t, b, v, b.Propose(terms), validation.ProposalDraft)
	contract := accept(t, b, v, b.Sign(proposal, terms), validation.ContractActive)

	odd := b.Propose(ledgertest.AmendmentRecord(opret.ProposalTerminate, a, r, contract.ID, 50))
	_, err := v.Validate(context.Background(), odd)
	assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)

	whole := b.Propose(ledgertest.AmendmentRecord(opret.ProposalTerminate, a, r, contract.ID, 100))
	state, err := v.Validate(context.Background(), whole)
	require.NoError(t, err)
	assert.Equal(t, validation.ProposalDraft, state)
}

func TestAgreements_ProposalRules(t *testing.T) {
	a, r, m := ledgertest.Key(1), ledgertest.Key(2), ledgertest.Key(3)

	tests := []struct {
		name   string
		mutate func(rec *opret.AgreementProposal)
		want   error
	}{
		{name: "valid with mediator", mutate: func(rec *opret.AgreementProposal) {}},
		{name: "valid without receiver", mutate: func(rec *opret.AgreementProposal) { rec.Receiver = nil }},
		{name: "initiator is mediator", mutate: func(rec *opret.AgreementProposal) { rec.Mediator = a }, want: cc.ErrBusinessRuleViolation},
		{name: "initiator is receiver", mutate: func(rec *opret.AgreementProposal) { rec.Receiver = a }, want: cc.ErrBusinessRuleViolation},
		{name: "receiver is mediator", mutate: func(rec *opret.AgreementProposal) { rec.Mediator = r }, want: cc.ErrBusinessRuleViolation},
		{name: "fee below minimum", mutate: func(rec *opret.AgreementProposal) { rec.MediatorFee = cc.MinMediatorFee - 1 }, want: cc.ErrBusinessRuleViolation},
		{name: "deposit below minimum", mutate: func(rec *opret.AgreementProposal) { rec.Deposit = cc.MinDeposit - 1 }, want: cc.ErrBusinessRuleViolation},
		{
			name: "deposit without mediator",
			mutate: func(rec *opret.AgreementProposal) {
				rec.Mediator = nil
				rec.MediatorFee = 0
			},
			want: cc.ErrBusinessRuleViolation,
		},
		{name: "zero data hash", mutate: func(rec *opret.AgreementProposal) { rec.DataHash = chainhash.Hash{} }, want: cc.ErrBusinessRuleViolation},
		{name: "deposit cut on new contract", mutate: func(rec *opret.AgreementProposal) { rec.DepositCut = 10 }, want: cc.ErrBusinessRuleViolation},
		{name: "update without agreement", mutate: func(rec *opret.AgreementProposal) { rec.ProposalType = opret.ProposalUpdate }, want: cc.ErrBusinessRuleViolation},
		{name: "reference is not a contract", mutate: func(rec *opret.AgreementProposal) { rec.AgreementID = ledgertest.Hash(5) }, want: cc.ErrLinkageViolation},
		{name: "invalid mediator key", mutate: func(rec *opret.AgreementProposal) { rec.Mediator = []byte{0x03, 0x00} }, want: cc.ErrBusinessRuleViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ledgertest.New(t)
			rec := ledgertest.ProposalRecord(a, r, m)
			tt.mutate(rec)

			state, err := newValidator(b).Validate(context.Background(), b.Propose(rec))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, validation.ProposalDraft, state)
		})
	}
}

func TestAgreements_ProposalStructure(t *testing.T) {
	b := ledgertest.New(t)
	v := newValidator(b)
	a, r := ledgertest.Key(1), ledgertest.Key(2)
	ctx := context.Background()

	unsigned := b.Propose(ledgertest.ProposalRecord(a, r, nil))
	unsigned.Inputs[0].Signer = r
	_, err := v.Validate(ctx, unsigned)
	assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)

	wrongHook := b.Propose(ledgertest.ProposalRecord(a, r, nil))
	wrongHook.Outputs[1] = b.CC(b.Agreements(), cc.ResponseValue, a)
	_, err = v.Validate(ctx, wrongHook)
	require.ErrorIs(t, err, cc.ErrStructuralViolation)
	var de *cc.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 1, de.Vout)

	lowMarker := b.Propose(ledgertest.ProposalRecord(a, r, nil))
	lowMarker.Outputs[0].Value = 1
	_, err = v.Validate(ctx, lowMarker)
	assert.ErrorIs(t, err, cc.ErrStructuralViolation)
}

func TestAgreements_Amendments(t *testing.T) {
	a, r, c := ledgertest.Key(1), ledgertest.Key(2), ledgertest.Key(3)

	tests := []struct {
		name         string
		prevReceiver []byte
		mutate       func(rec *opret.AgreementProposal)
		noSpend      bool
		want         error
	}{
		{name: "same receiver", prevReceiver: r},
		{name: "receiver added", prevReceiver: nil},
		{name: "receiver changed", prevReceiver: r, mutate: func(rec *opret.AgreementProposal) { rec.Receiver = c }, want: cc.ErrBusinessRuleViolation},
		{name: "receiver removed", prevReceiver: r, mutate: func(rec *opret.AgreementProposal) { rec.Receiver = nil }, want: cc.ErrBusinessRuleViolation},
		{name: "other initiator", prevReceiver: r, mutate: func(rec *opret.AgreementProposal) { rec.Initiator, rec.Receiver = c, r }, want: cc.ErrBusinessRuleViolation},
		{name: "hook not spent", prevReceiver: r, noSpend: true, want: cc.ErrLinkageViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ledgertest.New(t)
			v := newValidator(b)
			prev := accept(t, b, v, b.Propose(ledgertest.ProposalRecord(a, tt.prevReceiver, nil)), validation.ProposalDraft)

			rec := ledgertest.ProposalRecord(a, r, nil)
			rec.PrevProposalID = prev.ID
			if tt.mutate != nil {
				tt.mutate(rec)
			}
			var extra []ledger.TxIn
			if !tt.noSpend {
				extra = append(extra, ledgertest.Spend(prev, 1, rec.Initiator))
			}

			state, err := v.Validate(context.Background(), b.Propose(rec, extra...))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, validation.ProposalAmended, state)
		})
	}
}

func TestAgreements_SingleSuccessor(t *testing.T) {
	b := ledgertest.New(t)
	v := newValidator(b)
	a, r := ledgertest.Key(1), ledgertest.Key(2)

	prev := accept(t, b, v, b.Propose(ledgertest.ProposalRecord(a, r, nil)), validation.ProposalDraft)
	rec := ledgertest.ProposalRecord(a, r, nil)
	rec.PrevProposalID = prev.ID
	accept(t, b, v, b.Propose(rec, ledgertest.Spend(prev, 1, a)), validation.ProposalAmended)

	rival := ledgertest.ProposalRecord(a, r, nil)
	rival.PrevProposalID = prev.ID
	rival.Name = "rival"
	_, err := v.Validate(context.Background(), b.Propose(rival, ledgertest.Spend(prev, 1, a)))
	assert.ErrorIs(t, err, cc.ErrLinkageViolation)

	_, err = v.Validate(context.Background(), b.CloseProposal(prev, a))
	assert.ErrorIs(t, err, cc.ErrLinkageViolation)
}

func TestAgreements_Close(t *testing.T) {
	a, r := ledgertest.Key(1), ledgertest.Key(2)

	tests := []struct {
		name   string
		closer []byte
		want   error
	}{
		{name: "by initiator", closer: a},
		{name: "by receiver", closer: r},
		{name: "by stranger", closer: ledgertest.Key(9), want: cc.ErrBusinessRuleViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ledgertest.New(t)
			v := newValidator(b)
			p := accept(t, b, v, b.Propose(ledgertest.ProposalRecord(a, r, nil)), validation.ProposalDraft)

			state, err := v.Validate(context.Background(), b.CloseProposal(p, tt.closer))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, validation.ProposalClosed, state)
		})
	}
}

func TestAgreements_Signing(t *testing.T) {
	a, r, m := ledgertest.Key(1), ledgertest.Key(2), ledgertest.Key(3)
	ctx := context.Background()

	t.Run("signed by initiator", func(t *testing.T) {
		b := ledgertest.New(t)
		terms := ledgertest.ProposalRecord(a, r, m)
		p := b.Commit(b.Propose(terms))
		tx := b.Sign(p, terms)
		for i := range tx.Inputs {
			tx.Inputs[i].Signer = a
		}
		_, err := newValidator(b).Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("deposit mismatch", func(t *testing.T) {
		b := ledgertest.New(t)
		terms := ledgertest.ProposalRecord(a, r, m)
		p := b.Commit(b.Propose(terms))
		tx := b.Sign(p, terms)
		tx.Outputs[4].Value++
		_, err := newValidator(b).Validate(ctx, tx)
		require.ErrorIs(t, err, cc.ErrStructuralViolation)
		var de *cc.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, 4, de.Vout)
	})

	t.Run("proposal without receiver", func(t *testing.T) {
		b := ledgertest.New(t)
		terms := ledgertest.ProposalRecord(a, nil, nil)
		p := b.Commit(b.Propose(terms))
		terms.Receiver = r
		_, err := newValidator(b).Validate(ctx, b.Sign(p, terms))
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("accepting an update proposal", func(t *testing.T) {
		f := newAgreement(t, false)
		q, qrec := f.propose(t, opret.ProposalUpdate, f.a, f.r, 0)
		_, err := f.v.Validate(ctx, f.b.Sign(q, qrec))
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("accepting twice", func(t *testing.T) {
		f := newAgreement(t, false)
		_, err := f.v.Validate(ctx, f.b.Sign(f.proposal, f.terms))
		assert.ErrorIs(t, err, cc.ErrLinkageViolation)
	})
}

func TestAgreements_DirectCreate(t *testing.T) {
	a, r := ledgertest.Key(1), ledgertest.Key(2)

	tests := []struct {
		name    string
		creator []byte
		client  []byte
		deposit int64
		mutate  func(tx *ledger.Tx)
		want    error
	}{
		{name: "valid", creator: a, client: r, deposit: cc.MinDeposit},
		{name: "same parties", creator: a, client: a, deposit: cc.MinDeposit, want: cc.ErrBusinessRuleViolation},
		{name: "deposit below minimum", creator: a, client: r, deposit: cc.MinDeposit - 1, want: cc.ErrBusinessRuleViolation},
		{
			name: "deposit output differs", creator: a, client: r, deposit: cc.MinDeposit,
			mutate: func(tx *ledger.Tx) { tx.Outputs[1].Value++ },
			want:   cc.ErrStructuralViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ledgertest.New(t)
			tx := b.CreateAgreement(tt.creator, tt.client, tt.deposit)
			if tt.mutate != nil {
				tt.mutate(tx)
			}
			state, err := newValidator(b).Validate(context.Background(), tx)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, validation.ContractActive, state)
		})
	}
}

func TestAgreements_UpdateRules(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed by proposer", func(t *testing.T) {
		f := newAgreement(t, false)
		q, qrec := f.propose(t, opret.ProposalUpdate, f.a, f.r, 0)
		tx := f.b.UpdateAgreement(ledgertest.UpdateParams{
			Contract: f.terms, Baton: ledgertest.Spend(f.contract, 1, f.a),
			Proposal: q, Record: qrec, Confirmer: f.a,
		})
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("wrong last update", func(t *testing.T) {
		f := newAgreement(t, false)
		q, qrec := f.propose(t, opret.ProposalUpdate, f.a, f.r, 0)
		tx := f.b.UpdateAgreement(ledgertest.UpdateParams{
			Contract: f.terms, Baton: ledgertest.Spend(f.contract, 1, f.r),
			Proposal: q, Record: qrec, Confirmer: f.r, LastUpdateID: ledgertest.Hash(1),
		})
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrLinkageViolation)
	})

	t.Run("type mismatch", func(t *testing.T) {
		f := newAgreement(t, false)
		q, qrec := f.propose(t, opret.ProposalUpdate, f.a, f.r, 0)
		tx := f.b.UpdateAgreement(ledgertest.UpdateParams{
			Contract: f.terms, Baton: ledgertest.Spend(f.contract, 1, f.r),
			Proposal: q, Record: qrec, Confirmer: f.r,
		})
		rec := &opret.AgreementUpdate{Confirmer: f.r, ProposalID: q.ID, UpdateType: opret.UpdateTerminate}
		tx.Outputs[len(tx.Outputs)-1] = f.b.Opret(rec)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("baton not spent", func(t *testing.T) {
		f := newAgreement(t, false)
		q, qrec := f.propose(t, opret.ProposalUpdate, f.a, f.r, 0)
		tx := f.b.UpdateAgreement(ledgertest.UpdateParams{
			Contract: f.terms, Baton: f.b.Funding(f.r),
			Proposal: q, Record: qrec, Confirmer: f.r,
		})
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrLinkageViolation)
	})
}

func TestAgreements_DisputeRules(t *testing.T) {
	ctx := context.Background()

	t.Run("no mediator", func(t *testing.T) {
		f := newAgreement(t, false)
		tx := f.b.Dispute(f.contract.ID, f.a, ledgertest.Key(3),
			ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.a), chainhash.Hash{}, cc.MinMediatorFee)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newAgreement(t, true)
		x := ledgertest.Key(9)
		tx := f.b.Dispute(f.contract.ID, x, f.m,
			ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, x), chainhash.Hash{}, f.terms.MediatorFee)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("receiver uses own baton", func(t *testing.T) {
		f := newAgreement(t, true)
		tx := f.b.Dispute(f.contract.ID, f.r, f.m,
			ledgertest.Spend(f.contract, chain.ReceiverDisputeVout, f.r), chainhash.Hash{}, f.terms.MediatorFee)
		state, err := f.v.Validate(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, validation.ContractDisputed, state)
	})

	t.Run("receiver spends initiator baton", func(t *testing.T) {
		f := newAgreement(t, true)
		tx := f.b.Dispute(f.contract.ID, f.r, f.m,
			ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.r), chainhash.Hash{}, f.terms.MediatorFee)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrLinkageViolation)
	})

	t.Run("fee below agreed", func(t *testing.T) {
		f := newAgreement(t, true)
		tx := f.b.Dispute(f.contract.ID, f.a, f.m,
			ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.a), chainhash.Hash{}, f.terms.MediatorFee-1)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrStructuralViolation)
	})

	t.Run("previous dispute open", func(t *testing.T) {
		f := newAgreement(t, true)
		d1 := accept(t, f.b, f.v, f.b.Dispute(f.contract.ID, f.a, f.m,
			ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.a), chainhash.Hash{}, f.terms.MediatorFee),
			validation.ContractDisputed)
		tx := f.b.Dispute(f.contract.ID, f.a, f.m, ledgertest.Spend(d1, 0, f.a), d1.ID, f.terms.MediatorFee)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})
}

func TestAgreements_ResolveRules(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T) (*agreementFixture, *ledger.Tx) {
		f := newAgreement(t, true)
		d := accept(t, f.b, f.v, f.b.Dispute(f.contract.ID, f.a, f.m,
			ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.a), chainhash.Hash{}, f.terms.MediatorFee),
			validation.ContractDisputed)
		return f, d
	}

	t.Run("not signed by mediator", func(t *testing.T) {
		f, d := open(t)
		deposit := ledgertest.Spend(f.contract, 4, f.a)
		tx := f.b.Resolve(d, f.a, f.a, &deposit, f.terms.Deposit)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("rewarded stranger", func(t *testing.T) {
		f, d := open(t)
		deposit := ledgertest.Spend(f.contract, 4, f.m)
		tx := f.b.Resolve(d, f.m, f.m, &deposit, f.terms.Deposit)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrBusinessRuleViolation)
	})

	t.Run("deposit kept", func(t *testing.T) {
		f, d := open(t)
		tx := f.b.Resolve(d, f.m, f.a, nil, 0)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrLinkageViolation)
	})

	t.Run("short payout", func(t *testing.T) {
		f, d := open(t)
		deposit := ledgertest.Spend(f.contract, 4, f.m)
		tx := f.b.Resolve(d, f.m, f.a, &deposit, f.terms.Deposit-1)
		_, err := f.v.Validate(ctx, tx)
		assert.ErrorIs(t, err, cc.ErrStructuralViolation)
	})
}
