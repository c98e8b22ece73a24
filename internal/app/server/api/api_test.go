package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"antaracc/internal/app/server/api"
	"antaracc/internal/config"
	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/ledger/ledgertest"
	"antaracc/internal/domain/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func testConfig() *config.Config {
	cfg := &config.Config{Env: config.EnvLocal}
	cfg.Chain.Modules = cc.DefaultModules()
	cfg.Chain.WalkCeiling = chain.DefaultCeiling
	return cfg
}

func TestAPI_TokenLifecycle(t *testing.T) {
	b := ledgertest.New(t)
	origin, holder := ledgertest.Key(1), ledgertest.Key(2)
	mux := api.New(b.Store, testConfig(), slog.Default())

	create := b.CreateToken(origin, 1000, "gold")
	body, err := json.Marshal(ledger.FromTx(create))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	transfer := b.TransferToken(create.ID, []ledger.TxIn{ledgertest.Spend(create, 1, origin)}, origin, 300, 700, holder)
	body, err = json.Marshal(ledger.FromTx(transfer))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tokens/"+create.ID.String()+"/owners", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var owners query.TokenOwnersDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &owners))
	require.Len(t, owners.Owners, 2)
	assert.Equal(t, int64(700), owners.Owners[0].Balance)
	assert.Equal(t, int64(300), owners.Owners[1].Balance)
}

func TestAPI_Errors(t *testing.T) {
	b := ledgertest.New(t)
	mux := api.New(b.Store, testConfig(), slog.Default())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "health", method: http.MethodGet, path: "/api/v1/health", want: http.StatusOK},
		{name: "unknown token", method: http.MethodGet, path: "/api/v1/tokens/" + ledgertest.Hash(9).String(), want: http.StatusNotFound},
		{name: "malformed opret", method: http.MethodPost, path: "/api/v1/opret/decode", body: `{"opreturn":"f263ff"}`, want: http.StatusUnprocessableEntity},
		{name: "empty list", method: http.MethodGet, path: "/api/v1/agreements", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}
