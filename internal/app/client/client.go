package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"

	"antaracc/internal/app/client/config"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"
	"antaracc/internal/domain/query"

	"golang.org/x/exp/slog"
)

// App - клиент API индекса. Команды opret decode и tokentag address
// работают без сервера.
type App struct {
	config     *config.Config
	log        *slog.Logger
	httpClient *httpClient
	codec      *opret.Codec
	addr       ledger.Addresser
}

// ValidateResult - ответ проверки транзакции.
type ValidateResult struct {
	TxID  string `json:"txid"`
	Valid bool   `json:"valid"`
	State string `json:"state"`
}

// ImportResult - ответ индексации транзакции.
type ImportResult struct {
	TxID  string `json:"txid"`
	State string `json:"state"`
}

func New(cfg *config.Config, log *slog.Logger) *App {
	return &App{
		config:     cfg,
		log:        log,
		httpClient: NewHTTPClient(cfg, log),
		codec:      opret.NewCodec(cfg.Modules, log),
		addr:       ledger.NewAddressBook(),
	}
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection(ctx context.Context) error {
	return a.httpClient.HealthCheck(ctx)
}

func historyQuery(opts chain.HistoryOptions) string {
	q := url.Values{}
	if opts.MaxSamples > 0 {
		q.Set("samples", strconv.Itoa(opts.MaxSamples))
	}
	if opts.Recursive {
		q.Set("recursive", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func minBalanceQuery(min int64) string {
	if min <= 0 {
		return ""
	}
	return "?minbalance=" + strconv.FormatInt(min, 10)
}

func (a *App) TokenList(ctx context.Context) (*query.TokenListDTO, error) {
	var out query.TokenListDTO
	if err := a.httpClient.get(ctx, "/api/v1/tokens", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) TokenInfo(ctx context.Context, id string) (*query.TokenInfoDTO, error) {
	var out query.TokenInfoDTO
	if err := a.httpClient.get(ctx, "/api/v1/tokens/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) TokenOwners(ctx context.Context, id string, minBalance int64) (*query.TokenOwnersDTO, error) {
	var out query.TokenOwnersDTO
	path := "/api/v1/tokens/" + url.PathEscape(id) + "/owners" + minBalanceQuery(minBalance)
	if err := a.httpClient.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) TokenOwnerHistory(ctx context.Context, id string) ([]query.OwnerDTO, error) {
	var out []query.OwnerDTO
	if err := a.httpClient.get(ctx, "/api/v1/tokens/"+url.PathEscape(id)+"/owner-history", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *App) TokenUpdates(ctx context.Context, id string, opts chain.HistoryOptions) ([]query.TokenUpdateDTO, error) {
	var out []query.TokenUpdateDTO
	path := "/api/v1/tokens/" + url.PathEscape(id) + "/updates" + historyQuery(opts)
	if err := a.httpClient.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *App) TokenBalance(ctx context.Context, id, pubkey string) (*query.BalanceDTO, error) {
	var out query.BalanceDTO
	path := "/api/v1/tokens/" + url.PathEscape(id) + "/balance/" + url.PathEscape(pubkey)
	if err := a.httpClient.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) TokenInventory(ctx context.Context, pubkey string, minBalance int64) (*query.TokenInventoryDTO, error) {
	var out query.TokenInventoryDTO
	path := "/api/v1/pubkeys/" + url.PathEscape(pubkey) + "/tokens" + minBalanceQuery(minBalance)
	if err := a.httpClient.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) AgreementList(ctx context.Context) (*query.AgreementListDTO, error) {
	var out query.AgreementListDTO
	if err := a.httpClient.get(ctx, "/api/v1/agreements", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) AgreementInventory(ctx context.Context, pubkey string) (*query.AgreementListDTO, error) {
	var out query.AgreementListDTO
	if err := a.httpClient.get(ctx, "/api/v1/pubkeys/"+url.PathEscape(pubkey)+"/agreements", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) AgreementInfo(ctx context.Context, id string) (*query.AgreementInfoDTO, error) {
	var out query.AgreementInfoDTO
	if err := a.httpClient.get(ctx, "/api/v1/agreements/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) AgreementStatus(ctx context.Context, id string) (*query.AgreementStatusDTO, error) {
	var out query.AgreementStatusDTO
	if err := a.httpClient.get(ctx, "/api/v1/agreements/"+url.PathEscape(id)+"/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) AgreementUpdates(ctx context.Context, id string, opts chain.HistoryOptions) ([]query.RecordViewDTO, error) {
	var out []query.RecordViewDTO
	path := "/api/v1/agreements/" + url.PathEscape(id) + "/updates" + historyQuery(opts)
	if err := a.httpClient.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *App) AgreementDisputes(ctx context.Context, id string, opts chain.HistoryOptions) ([]query.DisputeDTO, error) {
	var out []query.DisputeDTO
	path := "/api/v1/agreements/" + url.PathEscape(id) + "/disputes" + historyQuery(opts)
	if err := a.httpClient.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *App) ProposalHistory(ctx context.Context, id string, opts chain.HistoryOptions) ([]query.RecordViewDTO, error) {
	var out []query.RecordViewDTO
	path := "/api/v1/proposals/" + url.PathEscape(id) + "/history" + historyQuery(opts)
	if err := a.httpClient.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *App) ValidateTx(ctx context.Context, tx ledger.TxDTO) (*ValidateResult, error) {
	var out ValidateResult
	if err := a.httpClient.post(ctx, "/api/v1/transactions/validate", tx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *App) ImportTx(ctx context.Context, tx ledger.TxDTO) (*ImportResult, error) {
	var out ImportResult
	if err := a.httpClient.post(ctx, "/api/v1/transactions", tx, &out); err != nil {
		return nil, err
	}
	a.log.Debug("Транзакция проиндексирована", "txid", out.TxID, "state", out.State)
	return &out, nil
}

// DecodeOpret разбирает opret локально, с eval-кодами из конфигурации.
func (a *App) DecodeOpret(payload string) (*opret.RecordDTO, error) {
	data, err := hex.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("opret должен быть в hex: %w", err)
	}
	rec, err := a.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	d := opret.ToDTO(rec)
	return &d, nil
}

// TokenTagAddress считает CC-адрес ключа в модуле тегов локально.
func (a *App) TokenTagAddress(pubkey string) (string, error) {
	pk, err := hex.DecodeString(pubkey)
	if err != nil {
		return "", fmt.Errorf("ключ должен быть в hex: %w", err)
	}
	if !opret.ValidPubKey(pk) {
		return "", fmt.Errorf("некорректный публичный ключ %s", pubkey)
	}
	return a.addr.CCAddress(a.config.Modules.TokenTags, pk), nil
}
