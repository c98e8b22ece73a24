package opret

import (
	"antaracc/internal/domain/cc"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Идентификаторы типов записей внутри модуля.
const (
	FuncTokenCreate   byte = 'c'
	FuncTokenTransfer byte = 't'
	FuncTokenUpdate   byte = 'u'

	FuncProposal        byte = 'p'
	FuncProposalClose   byte = 't'
	FuncContract        byte = 'c'
	FuncAgreementCreate byte = 'n'
	FuncAgreementUpdate byte = 'u'
	FuncDispute         byte = 'd'
	FuncResolve         byte = 'r'
)

// Типы предложений в соглашениях.
const (
	ProposalCreate    byte = 'p'
	ProposalUpdate    byte = 'u'
	ProposalTerminate byte = 't'
)

// Типы обновления контракта.
const (
	UpdateContract  byte = 'u'
	UpdateTerminate byte = 't'
)

// Ограничения длины полей.
const (
	MaxTokenNameLen        = 32
	MaxTokenDescriptionLen = 4096
	MaxTokenTypeLen        = 32
	MaxCurrencyCodeLen     = 16
	MaxAgreementNameLen    = 64
	MaxMessageLen          = 1024
	MaxPubKeyLen           = 65
)

// ExtensionID помечает побочные данные других модулей в opret.
type ExtensionID uint8

const (
	ExtNonFungibleData ExtensionID = 0x11
	ExtAssetsData      ExtensionID = 0x12
	ExtGatewaysData    ExtensionID = 0x13
	ExtChannelsData    ExtensionID = 0x14
	ExtHeirData        ExtensionID = 0x15
	ExtRogueGameData   ExtensionID = 0x16
	ExtPegsData        ExtensionID = 0x17
	ExtBurnData        ExtensionID = 0x80
	ExtImportData      ExtensionID = 0x81
)

func (id ExtensionID) String() string {
	switch id {
	case ExtNonFungibleData:
		return "nonfungible"
	case ExtAssetsData:
		return "assets"
	case ExtGatewaysData:
		return "gateways"
	case ExtChannelsData:
		return "channels"
	case ExtHeirData:
		return "heir"
	case ExtRogueGameData:
		return "roguegame"
	case ExtPegsData:
		return "pegs"
	case ExtBurnData:
		return "burn"
	case ExtImportData:
		return "import"
	}
	return "unknown"
}

type Extension struct {
	ID   ExtensionID
	Blob []byte
}

// Флаги лицензии токена.
const (
	TLFNoCopyright int32 = 1 << iota
	TLFPerform
	TLFDisplay
	TLFCopy
	TLFModify
	TLFDistribute
	TLFSublicense

	TLFAll = TLFNoCopyright | TLFPerform | TLFDisplay | TLFCopy | TLFModify | TLFDistribute | TLFSublicense
)

// Record - декодированная полезная нагрузка opret.
type Record interface {
	Module() cc.Module
	FuncID() byte
}

type TokenCreate struct {
	Origin        []byte
	Name          string
	Description   string
	OwnerPerc     float64
	TokenType     string
	RefTokenID    chainhash.Hash
	ExpiryTimeSec int64
	Extensions    []Extension
}

type TokenTransfer struct {
	TokenID      chainhash.Hash
	Destinations [][]byte
	Extensions   []Extension
}

type TokenUpdate struct {
	TokenID      chainhash.Hash
	PrevUpdateID chainhash.Hash
	DataHash     chainhash.Hash
	Value        int64
	CurrencyCode string
	LicenseType  int32
}

type AgreementProposal struct {
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

type AgreementClose struct {
	ProposalID chainhash.Hash
	Initiator  []byte
	Message    string
}

// AgreementSigning принимает предложение и создает контракт.
type AgreementSigning struct {
	ProposalID chainhash.Hash
}

// AgreementCreate - прямое создание соглашения без раунда предложений.
type AgreementCreate struct {
	Creator  []byte
	Client   []byte
	Deposit  int64
	Timelock int64
	DataHash chainhash.Hash
	Name     string
}

type AgreementUpdate struct {
	Confirmer    []byte
	LastUpdateID chainhash.Hash
	ProposalID   chainhash.Hash
	UpdateType   byte
}

type AgreementDispute struct {
	AgreementID   chainhash.Hash
	Initiator     []byte
	LastDisputeID chainhash.Hash
	DisputeType   byte
	DisputeHash   chainhash.Hash
}

type AgreementResolve struct {
	DisputeID chainhash.Hash
	Verdict   byte
	Rewarded  []byte
	Message   string
}

func (*TokenCreate) Module() cc.Module       { return cc.ModuleTokens }
func (*TokenTransfer) Module() cc.Module     { return cc.ModuleTokens }
func (*TokenUpdate) Module() cc.Module       { return cc.ModuleTokens }
func (*AgreementProposal) Module() cc.Module { return cc.ModuleAgreements }
func (*AgreementClose) Module() cc.Module    { return cc.ModuleAgreements }
func (*AgreementSigning) Module() cc.Module  { return cc.ModuleAgreements }
func (*AgreementCreate) Module() cc.Module   { return cc.ModuleAgreements }
func (*AgreementUpdate) Module() cc.Module   { return cc.ModuleAgreements }
func (*AgreementDispute) Module() cc.Module  { return cc.ModuleAgreements }
func (*AgreementResolve) Module() cc.Module  { return cc.ModuleAgreements }

func (*TokenCreate) FuncID() byte       { return FuncTokenCreate }
func (*TokenTransfer) FuncID() byte     { return FuncTokenTransfer }
func (*TokenUpdate) FuncID() byte       { return FuncTokenUpdate }
func (*AgreementProposal) FuncID() byte { return FuncProposal }
func (*AgreementClose) FuncID() byte    { return FuncProposalClose }
func (*AgreementSigning) FuncID() byte  { return FuncContract }
func (*AgreementCreate) FuncID() byte   { return FuncAgreementCreate }
func (*AgreementUpdate) FuncID() byte   { return FuncAgreementUpdate }
func (*AgreementDispute) FuncID() byte  { return FuncDispute }
func (*AgreementResolve) FuncID() byte  { return FuncResolve }

// TokenIDOf возвращает идентификатор токена, на который ссылается запись.
// Для записи создания идентификатор - это txid самой транзакции.
func TokenIDOf(rec Record, txid chainhash.Hash) (chainhash.Hash, bool) {
	switch r := rec.(type) {
	case *TokenCreate:
		return txid, true
	case *TokenTransfer:
		return r.TokenID, true
	case *TokenUpdate:
		return r.TokenID, true
	}
	return chainhash.Hash{}, false
}

// TypeName - человекочитаемое имя типа записи.
func TypeName(rec Record) string {
	switch rec.(type) {
	case *TokenCreate:
		return "token-create"
	case *TokenTransfer:
		return "token-transfer"
	case *TokenUpdate:
		return "token-update"
	case *AgreementProposal:
		return "agreement-proposal"
	case *AgreementClose:
		return "agreement-close"
	case *AgreementSigning:
		return "agreement-sign"
	case *AgreementCreate:
		return "agreement-create"
	case *AgreementUpdate:
		return "agreement-update"
	case *AgreementDispute:
		return "agreement-dispute"
	case *AgreementResolve:
		return "agreement-resolve"
	}
	return "unknown"
}
