package pubkey

import (
	"antaracc/internal/domain/query"
)

type tokensInput struct {
	PubKey     string `path:"pubkey" doc:"Публичный ключ (hex)"`
	MinBalance int64  `query:"minbalance" minimum:"0" doc:"Скрыть токены с меньшим балансом"`
}

type tokensOutput struct {
	Body query.TokenInventoryDTO
}

type pubkeyInput struct {
	PubKey string `path:"pubkey" doc:"Публичный ключ (hex)"`
}

type agreementsOutput struct {
	Body query.AgreementListDTO
}

type addressOutput struct {
	Body addressResponse
}

type addressResponse struct {
	PubKey  string `json:"pubkey"`
	Address string `json:"address" doc:"CC-адрес модуля тегов токенов"`
}
