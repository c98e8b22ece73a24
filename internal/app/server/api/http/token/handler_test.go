package token

import (
	"context"
	"net/http"
	"testing"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/query"
	"antaracc/internal/domain/query/querytest"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var tokenID = chainhash.Hash{0xaa, 0x01}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestHandler_Info(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		info       *query.TokenInfo
		serviceErr error
		wantStatus int
	}{
		{
			name: "found",
			id:   tokenID.String(),
			info: &query.TokenInfo{TokenID: tokenID, Name: "gold", Supply: 1000, Origin: []byte{0x02, 0x01}},
		},
		{
			name:       "not found",
			id:         tokenID.String(),
			serviceErr: cc.NotFound(tokenID.String()),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "not a token",
			id:         tokenID.String(),
			serviceErr: cc.Linkage(tokenID.String(), "not a token create"),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "bad id",
			id:         "abc",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(querytest.Service)
			h := NewHandler(svc, slog.Default(), nil)
			if tt.info != nil || tt.serviceErr != nil {
				svc.On("TokenInfo", mock.Anything, tokenID).Return(tt.info, tt.serviceErr)
			}

			resp, err := h.info(context.Background(), &idInput{ID: tt.id})

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "gold", resp.Body.Name)
			assert.Equal(t, "0201", resp.Body.Origin)
			assert.Equal(t, tokenID.String(), resp.Body.TokenID)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Owners(t *testing.T) {
	svc := new(querytest.Service)
	h := NewHandler(svc, slog.Default(), nil)
	svc.On("TokenOwners", mock.Anything, tokenID, int64(100)).Return(&query.TokenOwners{
		TokenID: tokenID,
		Owners:  []query.Holding{{PubKey: []byte{0x03}, Address: "Cabc", Balance: 700}},
	}, nil)

	resp, err := h.owners(context.Background(), &ownersInput{ID: tokenID.String(), MinBalance: 100})

	require.NoError(t, err)
	assert.Equal(t, []query.HoldingDTO{{PubKey: "03", Address: "Cabc", Balance: 700}}, resp.Body.Owners)
	svc.AssertExpectations(t)
}

func TestHandler_Updates(t *testing.T) {
	svc := new(querytest.Service)
	h := NewHandler(svc, slog.Default(), nil)
	opts := chain.HistoryOptions{MaxSamples: 2}
	svc.On("TokenUpdates", mock.Anything, tokenID, opts).Return([]query.TokenUpdateView{
		{TxID: chainhash.Hash{2}, Value: 20},
		{TxID: chainhash.Hash{1}, Value: 10},
	}, nil)

	input := &updatesInput{ID: tokenID.String()}
	input.Samples = 2
	resp, err := h.updates(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, resp.Body, 2)
	assert.Equal(t, int64(20), resp.Body[0].Value)
	svc.AssertExpectations(t)
}

func TestHandler_Balance(t *testing.T) {
	tests := []struct {
		name       string
		pubkey     string
		serviceErr error
		wantStatus int
	}{
		{name: "ok", pubkey: "02aa"},
		{name: "not a point", pubkey: "02aa", serviceErr: cc.Malformed("invalid pubkey"), wantStatus: http.StatusUnprocessableEntity},
		{name: "not hex", pubkey: "zz", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(querytest.Service)
			h := NewHandler(svc, slog.Default(), nil)
			var balance *query.Balance
			if tt.serviceErr == nil {
				balance = &query.Balance{TokenID: tokenID, PubKey: []byte{0x02, 0xaa}, Balance: 300, Supply: 1000, Percent: 30}
			}
			svc.On("TokenBalance", mock.Anything, tokenID, []byte{0x02, 0xaa}).Return(balance, tt.serviceErr).Maybe()

			resp, err := h.balance(context.Background(), &balanceInput{ID: tokenID.String(), PubKey: tt.pubkey})

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 30.0, resp.Body.Percent)
			assert.Equal(t, int64(300), resp.Body.Balance)
		})
	}
}

func TestHandler_Routes(t *testing.T) {
	svc := new(querytest.Service)
	svc.On("TokenList", mock.Anything).Return(&query.TokenList{
		Tokens: []query.TokenSummary{{TokenID: tokenID, Name: "gold", Supply: 1000}},
	}, nil)
	svc.On("TokenOwnerHistory", mock.Anything, tokenID).Return(nil, cc.NotFound(tokenID.String()))

	_, api := humatest.New(t)
	NewHandler(svc, slog.Default(), nil).SetupRoutes(api)

	resp := api.Get("/api/v1/tokens")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"name":"gold"`)

	resp = api.Get("/api/v1/tokens/" + tokenID.String() + "/owner-history")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
