package agreement

import (
	"antaracc/internal/app/server/api/http/param"
	"antaracc/internal/domain/query"
)

type idInput struct {
	ID string `path:"id" minLength:"64" maxLength:"64" doc:"txid записи соглашения"`
}

type historyInput struct {
	ID string `path:"id" minLength:"64" maxLength:"64" doc:"txid записи соглашения"`
	param.History
}

type listOutput struct {
	Body query.AgreementListDTO
}

type infoOutput struct {
	Body query.AgreementInfoDTO
}

type statusOutput struct {
	Body query.AgreementStatusDTO
}

type recordsOutput struct {
	Body []query.RecordViewDTO
}

type disputesOutput struct {
	Body []query.DisputeDTO
}
