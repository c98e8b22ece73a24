package query

import (
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Diagnostic describes a record skipped during aggregation.
type Diagnostic struct {
	TxID   chainhash.Hash
	Reason string
}

type TokenInfo struct {
	TokenID       chainhash.Hash
	Height        int64
	Origin        []byte
	Name          string
	Description   string
	Supply        int64
	OwnerPerc     float64
	TokenType     string
	RefTokenID    chainhash.Hash
	ExpiryTimeSec int64
	Extensions    []opret.Extension
	// Holders - ключи, на которых сейчас лежит батон токена.
	Holders      [][]byte
	LatestUpdate *TokenUpdateView
}

type TokenUpdateView struct {
	TxID         chainhash.Hash
	Height       int64
	PrevUpdateID chainhash.Hash
	DataHash     chainhash.Hash
	Value        int64
	CurrencyCode string
	LicenseType  int32
}

type TokenSummary struct {
	TokenID chainhash.Hash
	Name    string
	Origin  []byte
	Supply  int64
}

type TokenList struct {
	Tokens  []TokenSummary
	Skipped []Diagnostic
}

type Balance struct {
	TokenID chainhash.Hash
	PubKey  []byte
	Address string
	Balance int64
	Supply  int64
	Percent float64
	Skipped []Diagnostic
}

type Holding struct {
	PubKey  []byte
	Address string
	Balance int64
}

type TokenOwners struct {
	TokenID chainhash.Hash
	Owners  []Holding
	Skipped []Diagnostic
}

type InventoryItem struct {
	TokenID chainhash.Hash
	Name    string
	Balance int64
}

type TokenInventory struct {
	PubKey  []byte
	Tokens  []InventoryItem
	Skipped []Diagnostic
}

// Status - человекочитаемое состояние предложения или контракта.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusAmended  Status = "amended"
	StatusClosed   Status = "closed"
	StatusAccepted Status = "accepted"

	StatusActive     Status = "active"
	StatusUpdated    Status = "updated"
	StatusResolved   Status = "resolved"
	StatusDisputed   Status = "disputed"
	StatusTerminated Status = "terminated"
)

type AgreementInfo struct {
	TxID   chainhash.Hash
	Height int64
	Type   string
	Record opret.Record
	Status Status
	// Terms - принятое предложение для транзакции контракта.
	Terms    *opret.AgreementProposal
	Updates  int
	Disputes int
}

type AgreementSummary struct {
	TxID   chainhash.Hash
	Type   string
	Name   string
	Status Status
}

type AgreementList struct {
	Agreements []AgreementSummary
	Skipped    []Diagnostic
}

type AgreementStatus struct {
	TxID         chainhash.Hash
	Status       Status
	LatestUpdate chainhash.Hash
	OpenDisputes []chainhash.Hash
}

type RecordView struct {
	TxID   chainhash.Hash
	Height int64
	Record opret.Record
}

type DisputeView struct {
	TxID       chainhash.Hash
	Height     int64
	Initiator  []byte
	Type       byte
	Hash       chainhash.Hash
	Resolution chainhash.Hash
}
