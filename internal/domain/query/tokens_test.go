package query_test

import (
	"context"
	"testing"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/ledger/ledgertest"
	"antaracc/internal/domain/query"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newService(b *ledgertest.Builder) *query.Service {
	w := chain.NewWalker(b.Store, b.Codec, b.Addr, 0, slog.Default())
	return query.NewService(b.Store, b.Codec, b.Addr, w, slog.Default())
}

// tokenFixture: origin выпускает 1000, переводит 300 держателю,
// держатель дважды обновляет токен.
type tokenFixture struct {
	b              *ledgertest.Builder
	s              *query.Service
	origin, holder []byte
	create         *ledger.Tx
	transfer       *ledger.Tx
	updates        []*ledger.Tx
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()
	b := ledgertest.New(t)
	f := &tokenFixture{b: b, s: newService(b), origin: ledgertest.Key(1), holder: ledgertest.Key(2)}

	f.create = b.Commit(b.CreateToken(f.origin, 1000, "gold"))
	f.transfer = b.Commit(b.TransferToken(f.create.ID,
		[]ledger.TxIn{ledgertest.Spend(f.create, 1, f.origin)}, f.origin, 300, 700, f.holder))

	baton, prev := ledgertest.Spend(f.transfer, 0, f.holder), chainhash.Hash{}
	for _, value := range []int64{10, 20} {
		u := b.Commit(b.UpdateToken(f.create.ID, baton, f.transfer.Outputs[0], prev, value))
		f.updates = append(f.updates, u)
		baton, prev = ledgertest.Spend(u, 0, f.holder), u.ID
	}
	return f
}

func TestTokenInfo(t *testing.T) {
	f := newTokenFixture(t)

	info, err := f.s.TokenInfo(context.Background(), f.create.ID)
	require.NoError(t, err)

	assert.Equal(t, "gold", info.Name)
	assert.Equal(t, int64(1000), info.Supply)
	assert.Equal(t, f.origin, info.Origin)
	assert.Equal(t, [][]byte{f.holder}, info.Holders)
	require.NotNil(t, info.LatestUpdate)
	assert.Equal(t, f.updates[1].ID, info.LatestUpdate.TxID)
	assert.Equal(t, int64(20), info.LatestUpdate.Value)
	assert.Equal(t, f.updates[0].ID, info.LatestUpdate.PrevUpdateID)
}

func TestTokenInfo_Errors(t *testing.T) {
	f := newTokenFixture(t)

	tests := []struct {
		name string
		id   chainhash.Hash
		want error
	}{
		{name: "unknown id", id: ledgertest.Hash(0x77), want: cc.ErrNotFound},
		{name: "transfer is not a token", id: f.transfer.ID, want: cc.ErrLinkageViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.s.TokenInfo(context.Background(), tt.id)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenList_SkipsBrokenMarkers(t *testing.T) {
	f := newTokenFixture(t)
	second := f.b.Commit(f.b.CreateToken(f.holder, 50, "silver"))
	broken := f.b.Commit(&ledger.Tx{
		ID: ledgertest.Hash(0x99),
		Outputs: []ledger.TxOut{
			f.b.Marker(f.b.Tokens()),
			{OpReturn: []byte{f.b.Tokens(), 'c'}},
		},
	})

	list, err := f.s.TokenList(context.Background())
	require.NoError(t, err)

	ids := make([]chainhash.Hash, 0, len(list.Tokens))
	for _, tok := range list.Tokens {
		ids = append(ids, tok.TokenID)
	}
	assert.ElementsMatch(t, []chainhash.Hash{f.create.ID, second.ID}, ids)
	require.Len(t, list.Skipped, 1)
	assert.Equal(t, broken.ID, list.Skipped[0].TxID)
}

func TestTokenBalance(t *testing.T) {
	f := newTokenFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		pubkey  []byte
		balance int64
		percent float64
	}{
		{name: "origin keeps change", pubkey: f.origin, balance: 700, percent: 70},
		{name: "holder keeps baton", pubkey: f.holder, balance: 300, percent: 30},
		{name: "stranger", pubkey: ledgertest.Key(9), balance: 0, percent: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := f.s.TokenBalance(ctx, f.create.ID, tt.pubkey)
			require.NoError(t, err)
			assert.Equal(t, tt.balance, b.Balance)
			assert.InDelta(t, tt.percent, b.Percent, 1e-9)

			p, err := f.s.TokenOwnershipPercent(ctx, f.create.ID, tt.pubkey)
			require.NoError(t, err)
			assert.InDelta(t, tt.percent, p, 1e-9)
		})
	}

	_, err := f.s.TokenBalance(ctx, f.create.ID, []byte{0x02, 0x01})
	assert.ErrorIs(t, err, cc.ErrMalformedRecord)
}

func TestTokenOwners(t *testing.T) {
	f := newTokenFixture(t)

	tests := []struct {
		name       string
		minBalance int64
		want       [][]byte
	}{
		{name: "all", minBalance: 0, want: [][]byte{f.origin, f.holder}},
		{name: "filtered", minBalance: 500, want: [][]byte{f.origin}},
		{name: "none", minBalance: 5000, want: [][]byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owners, err := f.s.TokenOwners(context.Background(), f.create.ID, tt.minBalance)
			require.NoError(t, err)
			got := [][]byte{}
			for _, o := range owners.Owners {
				got = append(got, o.PubKey)
			}
			assert.Equal(t, tt.want, got)
			assert.Empty(t, owners.Skipped)
		})
	}
}

func TestTokenOwners_SharedOutput(t *testing.T) {
	b := ledgertest.New(t)
	s := newService(b)
	a, c, d := ledgertest.Key(1), ledgertest.Key(2), ledgertest.Key(3)

	create := b.Commit(b.CreateToken(a, 100, "pair"))
	b.Commit(b.TransferToken(create.ID, []ledger.TxIn{ledgertest.Spend(create, 1, a)}, a, 100, 0, c, d))

	owners, err := s.TokenOwners(context.Background(), create.ID, 0)
	require.NoError(t, err)
	require.Len(t, owners.Owners, 1)
	assert.Equal(t, b.Addr.CC1of2Address(b.Tokens(), c, d), owners.Owners[0].Address)
	assert.Nil(t, owners.Owners[0].PubKey)
	assert.Equal(t, int64(100), owners.Owners[0].Balance)
}

func TestTokenInventory(t *testing.T) {
	f := newTokenFixture(t)
	second := f.b.Commit(f.b.CreateToken(f.holder, 50, "silver"))
	ctx := context.Background()

	inv, err := f.s.TokenInventory(ctx, f.holder, 0)
	require.NoError(t, err)
	require.Len(t, inv.Tokens, 2)
	assert.Equal(t, query.InventoryItem{TokenID: f.create.ID, Name: "gold", Balance: 300}, inv.Tokens[0])
	assert.Equal(t, query.InventoryItem{TokenID: second.ID, Name: "silver", Balance: 50}, inv.Tokens[1])

	inv, err = f.s.TokenInventory(ctx, f.holder, 100)
	require.NoError(t, err)
	require.Len(t, inv.Tokens, 1)
	assert.Equal(t, f.create.ID, inv.Tokens[0].TokenID)
}

func TestTokenUpdates(t *testing.T) {
	f := newTokenFixture(t)

	tests := []struct {
		name string
		opts chain.HistoryOptions
		want []chainhash.Hash
	}{
		{name: "all", want: []chainhash.Hash{f.updates[1].ID, f.updates[0].ID}},
		{name: "latest only", opts: chain.HistoryOptions{MaxSamples: 1}, want: []chainhash.Hash{f.updates[1].ID}},
		{name: "recursive", opts: chain.HistoryOptions{MaxSamples: 1, Recursive: true}, want: []chainhash.Hash{f.updates[1].ID, f.updates[0].ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := f.s.TokenUpdates(context.Background(), f.create.ID, tt.opts)
			require.NoError(t, err)
			got := make([]chainhash.Hash, 0, len(views))
			for _, v := range views {
				got = append(got, v.TxID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenUpdates_NoUpdates(t *testing.T) {
	b := ledgertest.New(t)
	create := b.Commit(b.CreateToken(ledgertest.Key(1), 10, "plain"))

	views, err := newService(b).TokenUpdates(context.Background(), create.ID, chain.HistoryOptions{})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestTokenOwnerHistory(t *testing.T) {
	f := newTokenFixture(t)

	owners, err := f.s.TokenOwnerHistory(context.Background(), f.create.ID)
	require.NoError(t, err)
	assert.Equal(t, []chain.Owner{
		{PubKey: f.origin, TxID: f.create.ID},
		{PubKey: f.holder, TxID: f.transfer.ID},
	}, owners)
}

func TestTokenTagAddress(t *testing.T) {
	b := ledgertest.New(t)
	s := newService(b)
	pk := ledgertest.Key(4)

	addr, err := s.TokenTagAddress(pk)
	require.NoError(t, err)
	assert.Equal(t, b.Addr.CCAddress(cc.DefaultEvalTokenTags, pk), addr)
	assert.NotEqual(t, b.Addr.CCAddress(cc.DefaultEvalTokens, pk), addr)

	_, err = s.TokenTagAddress([]byte("short"))
	assert.ErrorIs(t, err, cc.ErrMalformedRecord)
}
