package transaction

import (
	"context"
	"encoding/hex"

	"antaracc/internal/app/server/api/http/problem"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"
	"antaracc/internal/domain/validation"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Decoder interface {
	Decode(b []byte) (opret.Record, error)
}

type Validator interface {
	Validate(ctx context.Context, tx *ledger.Tx) (validation.State, error)
}

type Importer interface {
	Import(ctx context.Context, tx *ledger.Tx) (validation.State, error)
}

type Handler struct {
	decoder    Decoder
	validator  Validator
	importer   Importer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(decoder Decoder, validator Validator, importer Importer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		decoder:    decoder,
		validator:  validator,
		importer:   importer,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.decodeOp(), h.decode)
	huma.Register(api, h.validateOp(), h.validate)
	huma.Register(api, h.importOp(), h.importTx)
}

func (h *Handler) decode(_ context.Context, input *decodeInput) (*decodeOutput, error) {
	data, err := hex.DecodeString(input.Body.OpReturn)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("opreturn is not hex", err)
	}
	rec, err := h.decoder.Decode(data)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &decodeOutput{Body: opret.ToDTO(rec)}, nil
}

func (h *Handler) validate(ctx context.Context, input *txInput) (*validateOutput, error) {
	tx, err := input.Body.ToTx()
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid transaction", err)
	}
	state, err := h.validator.Validate(ctx, tx)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &validateOutput{Body: validateResponse{TxID: tx.ID.String(), Valid: true, State: state}}, nil
}

func (h *Handler) importTx(ctx context.Context, input *txInput) (*importOutput, error) {
	tx, err := input.Body.ToTx()
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid transaction", err)
	}
	state, err := h.importer.Import(ctx, tx)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &importOutput{Body: importResponse{TxID: tx.ID.String(), State: state}}, nil
}
