package transaction

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"
	"antaracc/internal/domain/validation"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, tx *ledger.Tx) (validation.State, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(validation.State), args.Error(1)
}

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) Import(ctx context.Context, tx *ledger.Tx) (validation.State, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(validation.State), args.Error(1)
}

func newCodec() *opret.Codec {
	return opret.NewCodec(cc.DefaultModules(), slog.Default())
}

func txDTO() ledger.TxDTO {
	return ledger.TxDTO{
		ID:      chainhash.Hash{0x10}.String(),
		Inputs:  []ledger.TxInDTO{{TxID: chainhash.Hash{0x01}.String(), Vout: 1, Signer: "02aa"}},
		Outputs: []ledger.TxOutDTO{{Value: 10, Address: "Caddr", EvalCode: 0xf2}, {OpReturn: "f263"}},
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestHandler_Decode(t *testing.T) {
	codec := newCodec()
	payload, err := codec.Encode(&opret.AgreementSigning{ProposalID: chainhash.Hash{7}})
	require.NoError(t, err)

	tests := []struct {
		name       string
		in         string
		wantType   string
		wantStatus int
	}{
		{name: "signing", in: hex.EncodeToString(payload), wantType: "agreement-sign"},
		{name: "not hex", in: "zz", wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown eval code", in: "0163", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(codec, new(MockValidator), new(MockImporter), slog.Default(), nil)

			resp, err := h.decode(context.Background(), &decodeInput{Body: decodeRequest{OpReturn: tt.in}})

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, resp.Body.Type)
		})
	}
}

func TestHandler_Validate(t *testing.T) {
	tests := []struct {
		name       string
		state      validation.State
		err        error
		wantStatus int
	}{
		{name: "accepted", state: validation.TokenTransferred},
		{name: "conservation broken", err: cc.Structural("10", cc.NoVout, "inputs 10 != outputs 9"), wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown source", err: cc.NotFound("01"), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := new(MockValidator)
			v.On("Validate", mock.Anything, mock.MatchedBy(func(tx *ledger.Tx) bool {
				return tx.ID == chainhash.Hash{0x10} && len(tx.Inputs) == 1
			})).Return(tt.state, tt.err)
			h := NewHandler(newCodec(), v, new(MockImporter), slog.Default(), nil)

			resp, err := h.validate(context.Background(), &txInput{Body: txDTO()})

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.True(t, resp.Body.Valid)
			assert.Equal(t, tt.state, resp.Body.State)
			v.AssertExpectations(t)
		})
	}
}

func TestHandler_ValidateBadTx(t *testing.T) {
	h := NewHandler(newCodec(), new(MockValidator), new(MockImporter), slog.Default(), nil)
	dto := txDTO()
	dto.Inputs[0].Signer = "xyz"

	_, err := h.validate(context.Background(), &txInput{Body: dto})

	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
}

func TestHandler_Import(t *testing.T) {
	tests := []struct {
		name       string
		state      validation.State
		err        error
		wantStatus int
	}{
		{name: "indexed", state: validation.TokenCreated, wantStatus: http.StatusCreated},
		{name: "double spend", err: fmt.Errorf("index transaction: %w", ledger.ErrConflict), wantStatus: http.StatusConflict},
		{name: "violation", err: cc.BusinessRule("10", "not signed"), wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := new(MockImporter)
			imp.On("Import", mock.Anything, mock.Anything).Return(tt.state, tt.err)

			_, api := humatest.New(t)
			NewHandler(newCodec(), new(MockValidator), imp, slog.Default(), nil).SetupRoutes(api)

			resp := api.Post("/api/v1/transactions", txDTO())

			assert.Equal(t, tt.wantStatus, resp.Code)
			if tt.err == nil {
				assert.Contains(t, resp.Body.String(), string(tt.state))
			}
			imp.AssertExpectations(t)
		})
	}
}
