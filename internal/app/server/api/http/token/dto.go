package token

import (
	"antaracc/internal/app/server/api/http/param"
	"antaracc/internal/domain/query"
)

type idInput struct {
	ID string `path:"id" minLength:"64" maxLength:"64" doc:"Идентификатор токена (txid создания)"`
}

type listOutput struct {
	Body query.TokenListDTO
}

type infoOutput struct {
	Body query.TokenInfoDTO
}

type ownersInput struct {
	ID         string `path:"id" minLength:"64" maxLength:"64" doc:"Идентификатор токена (txid создания)"`
	MinBalance int64  `query:"minbalance" minimum:"0" doc:"Скрыть владельцев с меньшим балансом"`
}

type ownersOutput struct {
	Body query.TokenOwnersDTO
}

type ownerHistoryOutput struct {
	Body []query.OwnerDTO
}

type updatesInput struct {
	ID string `path:"id" minLength:"64" maxLength:"64" doc:"Идентификатор токена (txid создания)"`
	param.History
}

type updatesOutput struct {
	Body []query.TokenUpdateDTO
}

type balanceInput struct {
	ID     string `path:"id" minLength:"64" maxLength:"64" doc:"Идентификатор токена (txid создания)"`
	PubKey string `path:"pubkey" doc:"Публичный ключ владельца (hex)"`
}

type balanceOutput struct {
	Body query.BalanceDTO
}
