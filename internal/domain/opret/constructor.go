package opret

import (
	"antaracc/internal/domain/cc"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Значения по умолчанию для старых вызовов создания токена.
const (
	DefaultTokenType = "a"
	DefaultOwnerPerc = 50.0
)

// ValidPubKey проверяет, что байты - корректный ключ secp256k1.
func ValidPubKey(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	_, err := btcec.ParsePubKey(b)
	return err == nil
}

type TokenCreateParams struct {
	Origin        []byte
	Name          string
	Description   string
	OwnerPerc     float64
	TokenType     string
	RefTokenID    chainhash.Hash
	ExpiryTimeSec int64
	Extensions    []Extension
}

func NewTokenCreate(p TokenCreateParams) (*TokenCreate, error) {
	if !ValidPubKey(p.Origin) {
		return nil, cc.Malformed("invalid origin pubkey")
	}
	if p.Name == "" || len(p.Name) > MaxTokenNameLen {
		return nil, cc.Malformed("token name must be 1..%d bytes", MaxTokenNameLen)
	}
	if len(p.Description) > MaxTokenDescriptionLen {
		return nil, cc.Malformed("token description longer than %d bytes", MaxTokenDescriptionLen)
	}
	if p.OwnerPerc < 0 || p.OwnerPerc > 100 {
		return nil, cc.Malformed("owner percentage %v out of range 0..100", p.OwnerPerc)
	}
	if p.ExpiryTimeSec < 0 {
		return nil, cc.Malformed("negative expiry")
	}
	tokenType := p.TokenType
	if tokenType == "" {
		tokenType = DefaultTokenType
	}
	return &TokenCreate{
		Origin:        p.Origin,
		Name:          p.Name,
		Description:   p.Description,
		OwnerPerc:     p.OwnerPerc,
		TokenType:     tokenType,
		RefTokenID:    p.RefTokenID,
		ExpiryTimeSec: p.ExpiryTimeSec,
		Extensions:    p.Extensions,
	}, nil
}

// LegacyTokenCreate повторяет старую форму вызова: только имя, описание
// и необязательные nonfungible-данные.
func LegacyTokenCreate(origin []byte, name, description string, nonfungible []byte) (*TokenCreate, error) {
	var exts []Extension
	if len(nonfungible) > 0 {
		exts = []Extension{{ID: ExtNonFungibleData, Blob: nonfungible}}
	}
	return NewTokenCreate(TokenCreateParams{
		Origin:      origin,
		Name:        name,
		Description: description,
		OwnerPerc:   DefaultOwnerPerc,
		TokenType:   DefaultTokenType,
		Extensions:  exts,
	})
}

type TokenTransferParams struct {
	TokenID      chainhash.Hash
	Destinations [][]byte
	Extensions   []Extension
}

func NewTokenTransfer(p TokenTransferParams) (*TokenTransfer, error) {
	if p.TokenID == (chainhash.Hash{}) {
		return nil, cc.Malformed("zero token id")
	}
	if len(p.Destinations) > 2 {
		return nil, cc.Malformed("at most 2 destination pubkeys, got %d", len(p.Destinations))
	}
	for i, pk := range p.Destinations {
		if !ValidPubKey(pk) {
			return nil, cc.Malformed("invalid destination pubkey %d", i)
		}
	}
	return &TokenTransfer{
		TokenID:      p.TokenID,
		Destinations: p.Destinations,
		Extensions:   p.Extensions,
	}, nil
}

// LegacyTokenTransfer - перевод без расширений.
func LegacyTokenTransfer(tokenID chainhash.Hash, destinations ...[]byte) (*TokenTransfer, error) {
	return NewTokenTransfer(TokenTransferParams{
		TokenID:      tokenID,
		Destinations: destinations,
	})
}

type TokenUpdateParams struct {
	TokenID      chainhash.Hash
	PrevUpdateID chainhash.Hash
	DataHash     chainhash.Hash
	Value        int64
	CurrencyCode string
	LicenseType  int32
}

func NewTokenUpdate(p TokenUpdateParams) (*TokenUpdate, error) {
	if p.TokenID == (chainhash.Hash{}) {
		return nil, cc.Malformed("zero token id")
	}
	if p.Value < 0 {
		return nil, cc.Malformed("negative value")
	}
	if len(p.CurrencyCode) > MaxCurrencyCodeLen {
		return nil, cc.Malformed("currency code longer than %d bytes", MaxCurrencyCodeLen)
	}
	if p.LicenseType&^TLFAll != 0 {
		return nil, cc.Malformed("unknown license flags 0x%x", p.LicenseType&^TLFAll)
	}
	rec := TokenUpdate(p)
	return &rec, nil
}

type ProposalParams struct {
	ProposalType   byte
	Initiator      []byte
	Receiver       []byte
	Mediator       []byte
	MediatorFee    int64
	Deposit        int64
	DepositCut     int64
	DataHash       chainhash.Hash
	AgreementID    chainhash.Hash
	PrevProposalID chainhash.Hash
	Name           string
	Description    string
}

// NewAgreementProposal нормализует поля так же, как это делает узел:
// без посредника комиссия и депозит обнуляются, доля депозита имеет
// смысл только для предложения о расторжении.
func NewAgreementProposal(p ProposalParams) (*AgreementProposal, error) {
	if p.ProposalType == 0 {
		p.ProposalType = ProposalCreate
	}
	switch p.ProposalType {
	case ProposalCreate, ProposalUpdate, ProposalTerminate:
	default:
		return nil, cc.Malformed("unknown proposal type %q", p.ProposalType)
	}
	if !ValidPubKey(p.Initiator) {
		return nil, cc.Malformed("invalid initiator pubkey")
	}
	if len(p.Receiver) > 0 && !ValidPubKey(p.Receiver) {
		return nil, cc.Malformed("invalid receiver pubkey")
	}
	if len(p.Mediator) > 0 && !ValidPubKey(p.Mediator) {
		return nil, cc.Malformed("invalid mediator pubkey")
	}
	if p.Name == "" || len(p.Name) > MaxAgreementNameLen {
		return nil, cc.Malformed("agreement name must be 1..%d bytes", MaxAgreementNameLen)
	}
	if len(p.Description) > MaxMessageLen {
		return nil, cc.Malformed("agreement description longer than %d bytes", MaxMessageLen)
	}
	if len(p.Mediator) == 0 {
		p.Mediator = nil
		p.MediatorFee = 0
		p.Deposit = 0
	}
	if len(p.Receiver) == 0 {
		p.Receiver = nil
	}
	if p.ProposalType != ProposalTerminate {
		p.DepositCut = 0
	}
	rec := AgreementProposal(p)
	return &rec, nil
}

func NewAgreementClose(proposalID chainhash.Hash, initiator []byte, message string) (*AgreementClose, error) {
	if !ValidPubKey(initiator) {
		return nil, cc.Malformed("invalid initiator pubkey")
	}
	if len(message) > MaxMessageLen {
		return nil, cc.Malformed("message longer than %d bytes", MaxMessageLen)
	}
	return &AgreementClose{ProposalID: proposalID, Initiator: initiator, Message: message}, nil
}

type AgreementCreateParams struct {
	Creator  []byte
	Client   []byte
	Deposit  int64
	Timelock int64
	DataHash chainhash.Hash
	Name     string
}

func NewAgreementCreate(p AgreementCreateParams) (*AgreementCreate, error) {
	if !ValidPubKey(p.Creator) || !ValidPubKey(p.Client) {
		return nil, cc.Malformed("invalid creator or client pubkey")
	}
	if p.Name == "" || len(p.Name) > MaxAgreementNameLen {
		return nil, cc.Malformed("agreement name must be 1..%d bytes", MaxAgreementNameLen)
	}
	if p.Timelock < 0 {
		return nil, cc.Malformed("negative timelock")
	}
	rec := AgreementCreate(p)
	return &rec, nil
}
