package validation

// State - состояние сущности после принятия транзакции.
type State string

const (
	// Plain - транзакция без записей модулей и без CC-выходов.
	Plain State = "Plain"

	TokenCreated     State = "Created"
	TokenTransferred State = "Transferred"
	TokenUpdated     State = "Updated"

	ProposalDraft      State = "ProposalDraft"
	ProposalAmended    State = "ProposalAmended"
	ProposalClosed     State = "ProposalClosed"
	ContractActive     State = "ContractActive"
	ContractUpdated    State = "ContractUpdated"
	ContractDisputed   State = "ContractDisputed"
	ContractResolved   State = "ContractResolved"
	ContractTerminated State = "ContractTerminated"
)
