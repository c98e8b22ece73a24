package query_test

import (
	"context"
	"testing"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/ledger/ledgertest"
	"antaracc/internal/domain/opret"
	"antaracc/internal/domain/query"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agreementFixture struct {
	b        *ledgertest.Builder
	s        *query.Service
	a, r, m  []byte
	terms    *opret.AgreementProposal
	proposal *ledger.Tx
	contract *ledger.Tx
}

func newAgreement(t *testing.T) *agreementFixture {
	t.Helper()
	b := ledgertest.New(t)
	f := &agreementFixture{b: b, s: newService(b), a: ledgertest.Key(1), r: ledgertest.Key(2), m: ledgertest.Key(3)}
	f.terms = ledgertest.ProposalRecord(f.a, f.r, f.m)
	f.proposal = b.Commit(b.Propose(f.terms))
	f.contract = b.Commit(b.Sign(f.proposal, f.terms))
	return f
}

func (f *agreementFixture) update(t *testing.T, kind byte, baton ledger.TxIn, last chainhash.Hash) *ledger.Tx {
	t.Helper()
	rec := ledgertest.AmendmentRecord(kind, f.a, f.r, f.contract.ID, 50)
	q := f.b.Commit(f.b.Propose(rec))
	return f.b.Commit(f.b.UpdateAgreement(ledgertest.UpdateParams{
		Contract:     f.terms,
		Baton:        baton,
		Proposal:     q,
		Record:       rec,
		LastUpdateID: last,
		Confirmer:    f.r,
	}))
}

func (f *agreementFixture) dispute(t *testing.T, party []byte, baton ledger.TxIn, last chainhash.Hash) *ledger.Tx {
	t.Helper()
	return f.b.Commit(f.b.Dispute(f.contract.ID, party, f.m, baton, last, f.terms.MediatorFee))
}

func (f *agreementFixture) status(t *testing.T) *query.AgreementStatus {
	t.Helper()
	st, err := f.s.AgreementStatus(context.Background(), f.contract.ID)
	require.NoError(t, err)
	return st
}

func TestAgreementStatus_Lifecycle(t *testing.T) {
	f := newAgreement(t)

	st := f.status(t)
	assert.Equal(t, query.StatusActive, st.Status)
	assert.Equal(t, f.contract.ID, st.LatestUpdate)

	u1 := f.update(t, opret.ProposalUpdate, ledgertest.Spend(f.contract, 1, f.r), chainhash.Hash{})
	st = f.status(t)
	assert.Equal(t, query.StatusUpdated, st.Status)
	assert.Equal(t, u1.ID, st.LatestUpdate)

	d1 := f.dispute(t, f.a, ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.a), chainhash.Hash{})
	st = f.status(t)
	assert.Equal(t, query.StatusDisputed, st.Status)
	assert.Equal(t, []chainhash.Hash{d1.ID}, st.OpenDisputes)

	deposit := ledgertest.Spend(f.contract, 4, f.m)
	f.b.Commit(f.b.Resolve(d1, f.m, f.r, &deposit, f.terms.Deposit))
	st = f.status(t)
	assert.Equal(t, query.StatusResolved, st.Status)
	assert.Empty(t, st.OpenDisputes)

	// Открытый спор важнее решенного.
	f.dispute(t, f.r, ledgertest.Spend(f.contract, chain.ReceiverDisputeVout, f.r), chainhash.Hash{})
	assert.Equal(t, query.StatusDisputed, f.status(t).Status)

	u2 := f.update(t, opret.ProposalTerminate, ledgertest.Spend(u1, 0, f.r), u1.ID)
	st = f.status(t)
	assert.Equal(t, query.StatusTerminated, st.Status)
	assert.Equal(t, u2.ID, st.LatestUpdate)
}

func TestAgreementStatus_Proposals(t *testing.T) {
	b := ledgertest.New(t)
	s := newService(b)
	a, r := ledgertest.Key(1), ledgertest.Key(2)
	ctx := context.Background()

	draftRec := ledgertest.ProposalRecord(a, nil, nil)
	draft := b.Commit(b.Propose(draftRec))

	pendingRec := ledgertest.ProposalRecord(a, r, nil)
	pending := b.Commit(b.Propose(pendingRec))

	amendedRec := ledgertest.ProposalRecord(a, r, nil)
	amended := b.Commit(b.Propose(amendedRec))
	amendRec := ledgertest.ProposalRecord(a, r, nil)
	amendRec.PrevProposalID = amended.ID
	b.Commit(b.Propose(amendRec, ledgertest.Spend(amended, 1, a)))

	closedRec := ledgertest.ProposalRecord(a, r, nil)
	closed := b.Commit(b.Propose(closedRec))
	b.Commit(b.CloseProposal(closed, r))

	acceptedRec := ledgertest.ProposalRecord(a, r, nil)
	accepted := b.Commit(b.Propose(acceptedRec))
	b.Commit(b.Sign(accepted, acceptedRec))

	tests := []struct {
		name string
		id   chainhash.Hash
		want query.Status
	}{
		{name: "draft without receiver", id: draft.ID, want: query.StatusDraft},
		{name: "pending response", id: pending.ID, want: query.StatusPending},
		{name: "amended", id: amended.ID, want: query.StatusAmended},
		{name: "closed", id: closed.ID, want: query.StatusClosed},
		{name: "accepted", id: accepted.ID, want: query.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := s.AgreementStatus(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Status)
		})
	}
}

func TestAgreementInfo(t *testing.T) {
	f := newAgreement(t)
	u1 := f.update(t, opret.ProposalUpdate, ledgertest.Spend(f.contract, 1, f.r), chainhash.Hash{})
	f.update(t, opret.ProposalUpdate, ledgertest.Spend(u1, 0, f.r), u1.ID)
	f.dispute(t, f.a, ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.a), chainhash.Hash{})

	info, err := f.s.AgreementInfo(context.Background(), f.contract.ID)
	require.NoError(t, err)

	assert.Equal(t, "agreement-sign", info.Type)
	assert.Equal(t, query.StatusDisputed, info.Status)
	assert.Equal(t, 2, info.Updates)
	assert.Equal(t, 1, info.Disputes)
	require.NotNil(t, info.Terms)
	assert.Equal(t, f.terms.Name, info.Terms.Name)
	assert.Equal(t, f.m, info.Terms.Mediator)

	_, err = f.s.AgreementInfo(context.Background(), ledgertest.Hash(0x42))
	assert.ErrorIs(t, err, cc.ErrNotFound)
}

func TestAgreementInfo_TokenRecord(t *testing.T) {
	b := ledgertest.New(t)
	create := b.Commit(b.CreateToken(ledgertest.Key(1), 10, "gold"))

	_, err := newService(b).AgreementInfo(context.Background(), create.ID)
	assert.ErrorIs(t, err, cc.ErrUnknownType)
}

func TestAgreementList_And_Inventory(t *testing.T) {
	f := newAgreement(t)
	direct := f.b.Commit(f.b.CreateAgreement(ledgertest.Key(5), ledgertest.Key(6), cc.MinDeposit))
	ctx := context.Background()

	list, err := f.s.AgreementList(ctx)
	require.NoError(t, err)
	byID := make(map[chainhash.Hash]query.AgreementSummary)
	for _, a := range list.Agreements {
		byID[a.TxID] = a
	}
	require.Len(t, byID, 3)
	assert.Equal(t, query.StatusAccepted, byID[f.proposal.ID].Status)
	assert.Equal(t, query.StatusActive, byID[f.contract.ID].Status)
	assert.Equal(t, "supply contract", byID[f.contract.ID].Name)
	assert.Equal(t, "direct", byID[direct.ID].Name)
	assert.Empty(t, list.Skipped)

	tests := []struct {
		name   string
		pubkey []byte
		want   []chainhash.Hash
	}{
		{name: "mediator", pubkey: f.m, want: []chainhash.Hash{f.proposal.ID, f.contract.ID}},
		{name: "client", pubkey: ledgertest.Key(6), want: []chainhash.Hash{direct.ID}},
		{name: "stranger", pubkey: ledgertest.Key(9), want: []chainhash.Hash{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := f.s.AgreementInventory(ctx, tt.pubkey)
			require.NoError(t, err)
			got := []chainhash.Hash{}
			for _, a := range inv.Agreements {
				got = append(got, a.TxID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}

	_, err = f.s.AgreementInventory(ctx, nil)
	assert.ErrorIs(t, err, cc.ErrMalformedRecord)
}

func TestAgreementUpdates(t *testing.T) {
	f := newAgreement(t)
	ctx := context.Background()

	views, err := f.s.AgreementUpdates(ctx, f.contract.ID, chain.HistoryOptions{})
	require.NoError(t, err)
	assert.Empty(t, views)

	u1 := f.update(t, opret.ProposalUpdate, ledgertest.Spend(f.contract, 1, f.r), chainhash.Hash{})
	u2 := f.update(t, opret.ProposalTerminate, ledgertest.Spend(u1, 0, f.r), u1.ID)

	views, err = f.s.AgreementUpdates(ctx, f.contract.ID, chain.HistoryOptions{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, u2.ID, views[0].TxID)
	assert.Equal(t, u1.ID, views[1].TxID)

	_, err = f.s.AgreementUpdates(ctx, f.proposal.ID, chain.HistoryOptions{})
	assert.ErrorIs(t, err, cc.ErrLinkageViolation)
}

func TestAgreementDisputes(t *testing.T) {
	f := newAgreement(t)
	ctx := context.Background()

	d1 := f.dispute(t, f.a, ledgertest.Spend(f.contract, chain.InitiatorDisputeVout, f.a), chainhash.Hash{})
	res := f.b.Commit(f.b.Resolve(d1, f.m, f.a, nil, 0))
	d2 := f.dispute(t, f.r, ledgertest.Spend(f.contract, chain.ReceiverDisputeVout, f.r), chainhash.Hash{})
	d3 := f.dispute(t, f.a, ledgertest.Spend(d1, 0, f.a), d1.ID)

	views, err := f.s.AgreementDisputes(ctx, f.contract.ID, chain.HistoryOptions{})
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, []chainhash.Hash{d3.ID, d2.ID, d1.ID}, []chainhash.Hash{views[0].TxID, views[1].TxID, views[2].TxID})
	assert.Equal(t, res.ID, views[2].Resolution)
	assert.Equal(t, chainhash.Hash{}, views[0].Resolution)
	assert.Equal(t, f.r, views[1].Initiator)

	views, err = f.s.AgreementDisputes(ctx, f.contract.ID, chain.HistoryOptions{MaxSamples: 1})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, d3.ID, views[0].TxID)
}

func TestProposalHistory(t *testing.T) {
	b := ledgertest.New(t)
	s := newService(b)
	a, r := ledgertest.Key(1), ledgertest.Key(2)

	ids := []chainhash.Hash{}
	var prev *ledger.Tx
	for i := 0; i < 3; i++ {
		rec := ledgertest.ProposalRecord(a, r, nil)
		var extra []ledger.TxIn
		if prev != nil {
			rec.PrevProposalID = prev.ID
			extra = append(extra, ledgertest.Spend(prev, 1, a))
		}
		prev = b.Commit(b.Propose(rec, extra...))
		ids = append([]chainhash.Hash{prev.ID}, ids...)
	}

	views, err := s.ProposalHistory(context.Background(), prev.ID, chain.HistoryOptions{})
	require.NoError(t, err)
	got := []chainhash.Hash{}
	for _, v := range views {
		got = append(got, v.TxID)
	}
	assert.Equal(t, ids, got)

	views, err = s.ProposalHistory(context.Background(), prev.ID, chain.HistoryOptions{MaxSamples: 2})
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
