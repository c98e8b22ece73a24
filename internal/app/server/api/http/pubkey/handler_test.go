package pubkey

import (
	"context"
	"net/http"
	"testing"

	"antaracc/internal/domain/cc"
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

var pk = []byte{0x02, 0xab}

func TestHandler_Tokens(t *testing.T) {
	svc := new(querytest.Service)
	h := NewHandler(svc, slog.Default(), nil)
	svc.On("TokenInventory", mock.Anything, pk, int64(10)).Return(&query.TokenInventory{
		PubKey: pk,
		Tokens: []query.InventoryItem{{TokenID: chainhash.Hash{1}, Name: "gold", Balance: 300}},
	}, nil)

	resp, err := h.tokens(context.Background(), &tokensInput{PubKey: "02ab", MinBalance: 10})

	require.NoError(t, err)
	assert.Equal(t, "02ab", resp.Body.PubKey)
	assert.Equal(t, []query.InventoryItemDTO{{TokenID: chainhash.Hash{1}.String(), Name: "gold", Balance: 300}}, resp.Body.Tokens)
	svc.AssertExpectations(t)
}

func TestHandler_Agreements(t *testing.T) {
	tests := []struct {
		name       string
		list       *query.AgreementList
		serviceErr error
		wantStatus int
	}{
		{
			name: "ok",
			list: &query.AgreementList{Agreements: []query.AgreementSummary{
				{TxID: chainhash.Hash{5}, Type: "agreement-sign", Name: "supply", Status: query.StatusActive},
			}},
		},
		{
			name:       "invalid key",
			serviceErr: cc.Malformed("invalid pubkey"),
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(querytest.Service)
			h := NewHandler(svc, slog.Default(), nil)
			svc.On("AgreementInventory", mock.Anything, pk).Return(tt.list, tt.serviceErr)

			resp, err := h.agreements(context.Background(), &pubkeyInput{PubKey: "02ab"})

			if tt.wantStatus != 0 {
				var se huma.StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.wantStatus, se.GetStatus())
				return
			}
			require.NoError(t, err)
			require.Len(t, resp.Body.Agreements, 1)
			assert.Equal(t, query.StatusActive, resp.Body.Agreements[0].Status)
		})
	}
}

func TestHandler_TokenTagAddress(t *testing.T) {
	svc := new(querytest.Service)
	svc.On("TokenTagAddress", pk).Return("CTagAddr", nil)

	_, api := humatest.New(t)
	NewHandler(svc, slog.Default(), nil).SetupRoutes(api)

	resp := api.Get("/api/v1/pubkeys/02ab/tokentag-address")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"address":"CTagAddr"`)
	svc.AssertExpectations(t)
}
