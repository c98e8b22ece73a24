package transaction

import (
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"
	"antaracc/internal/domain/validation"
)

type decodeInput struct {
	Body decodeRequest
}

type decodeRequest struct {
	OpReturn string `json:"opreturn" minLength:"4" doc:"Полезная нагрузка opret (hex)"`
}

type decodeOutput struct {
	Body opret.RecordDTO
}

type txInput struct {
	Body ledger.TxDTO
}

type validateOutput struct {
	Body validateResponse
}

type validateResponse struct {
	TxID  string           `json:"txid"`
	Valid bool             `json:"valid"`
	State validation.State `json:"state" doc:"Состояние сущности после принятия"`
}

type importOutput struct {
	Body importResponse
}

type importResponse struct {
	TxID  string           `json:"txid"`
	State validation.State `json:"state"`
}
