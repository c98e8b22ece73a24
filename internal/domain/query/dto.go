package query

import (
	"encoding/hex"

	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// JSON-представления проекций. Используются HTTP API и клиентом CLI.

type DiagnosticDTO struct {
	TxID   string `json:"txid"`
	Reason string `json:"reason"`
}

type TokenInfoDTO struct {
	TokenID       string               `json:"tokenid"`
	Height        int64                `json:"height"`
	Origin        string               `json:"origin"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Supply        int64                `json:"supply"`
	OwnerPerc     float64              `json:"ownerperc"`
	TokenType     string               `json:"tokentype"`
	RefTokenID    string               `json:"reftokenid,omitempty"`
	ExpiryTimeSec int64                `json:"expirytimesec"`
	Extensions    []opret.ExtensionDTO `json:"extensions,omitempty"`
	Holders       []string             `json:"holders"`
	LatestUpdate  *TokenUpdateDTO      `json:"latestupdate,omitempty"`
}

type TokenUpdateDTO struct {
	TxID         string   `json:"txid"`
	Height       int64    `json:"height"`
	PrevUpdateID string   `json:"prevupdateid,omitempty"`
	DataHash     string   `json:"datahash,omitempty"`
	Value        int64    `json:"value"`
	CurrencyCode string   `json:"currencycode"`
	LicenseType  int32    `json:"licensetype"`
	License      []string `json:"license"`
}

type TokenSummaryDTO struct {
	TokenID string `json:"tokenid"`
	Name    string `json:"name"`
	Origin  string `json:"origin"`
	Supply  int64  `json:"supply"`
}

type TokenListDTO struct {
	Tokens  []TokenSummaryDTO `json:"tokens"`
	Skipped []DiagnosticDTO   `json:"skipped,omitempty"`
}

type BalanceDTO struct {
	TokenID string          `json:"tokenid"`
	PubKey  string          `json:"pubkey"`
	Address string          `json:"address"`
	Balance int64           `json:"balance"`
	Supply  int64           `json:"supply"`
	Percent float64         `json:"percent"`
	Skipped []DiagnosticDTO `json:"skipped,omitempty"`
}

type HoldingDTO struct {
	PubKey  string `json:"pubkey,omitempty"`
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

type TokenOwnersDTO struct {
	TokenID string          `json:"tokenid"`
	Owners  []HoldingDTO    `json:"owners"`
	Skipped []DiagnosticDTO `json:"skipped,omitempty"`
}

type InventoryItemDTO struct {
	TokenID string `json:"tokenid"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type TokenInventoryDTO struct {
	PubKey  string             `json:"pubkey"`
	Tokens  []InventoryItemDTO `json:"tokens"`
	Skipped []DiagnosticDTO    `json:"skipped,omitempty"`
}

type OwnerDTO struct {
	PubKey string `json:"pubkey"`
	TxID   string `json:"txid"`
}

type AgreementInfoDTO struct {
	TxID     string           `json:"txid"`
	Height   int64            `json:"height"`
	Type     string           `json:"type"`
	Status   Status           `json:"status"`
	Record   opret.RecordDTO  `json:"record"`
	Terms    *opret.RecordDTO `json:"terms,omitempty"`
	Updates  int              `json:"updates"`
	Disputes int              `json:"disputes"`
}

type AgreementSummaryDTO struct {
	TxID   string `json:"txid"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

type AgreementListDTO struct {
	Agreements []AgreementSummaryDTO `json:"agreements"`
	Skipped    []DiagnosticDTO       `json:"skipped,omitempty"`
}

type AgreementStatusDTO struct {
	TxID         string   `json:"txid"`
	Status       Status   `json:"status"`
	LatestUpdate string   `json:"latestupdate,omitempty"`
	OpenDisputes []string `json:"opendisputes"`
}

type RecordViewDTO struct {
	TxID   string          `json:"txid"`
	Height int64           `json:"height"`
	Record opret.RecordDTO `json:"record"`
}

type DisputeDTO struct {
	TxID       string `json:"txid"`
	Height     int64  `json:"height"`
	Initiator  string `json:"initiator"`
	Type       string `json:"type"`
	Hash       string `json:"hash,omitempty"`
	Resolution string `json:"resolution,omitempty"`
}

func hashOrEmpty(h chainhash.Hash) string {
	if h == (chainhash.Hash{}) {
		return ""
	}
	return h.String()
}

func diagnostics(in []Diagnostic) []DiagnosticDTO {
	if len(in) == 0 {
		return nil
	}
	out := make([]DiagnosticDTO, 0, len(in))
	for _, d := range in {
		out = append(out, DiagnosticDTO{TxID: d.TxID.String(), Reason: d.Reason})
	}
	return out
}

func (v TokenUpdateView) DTO() TokenUpdateDTO {
	return TokenUpdateDTO{
		TxID:         v.TxID.String(),
		Height:       v.Height,
		PrevUpdateID: hashOrEmpty(v.PrevUpdateID),
		DataHash:     hashOrEmpty(v.DataHash),
		Value:        v.Value,
		CurrencyCode: v.CurrencyCode,
		LicenseType:  v.LicenseType,
		License:      opret.LicenseNames(v.LicenseType),
	}
}

func (t *TokenInfo) DTO() TokenInfoDTO {
	d := TokenInfoDTO{
		TokenID:       t.TokenID.String(),
		Height:        t.Height,
		Origin:        hex.EncodeToString(t.Origin),
		Name:          t.Name,
		Description:   t.Description,
		Supply:        t.Supply,
		OwnerPerc:     t.OwnerPerc,
		TokenType:     t.TokenType,
		RefTokenID:    hashOrEmpty(t.RefTokenID),
		ExpiryTimeSec: t.ExpiryTimeSec,
		Holders:       make([]string, 0, len(t.Holders)),
	}
	for _, e := range t.Extensions {
		d.Extensions = append(d.Extensions, opret.ExtensionDTO{
			ID:   uint8(e.ID),
			Name: e.ID.String(),
			Blob: hex.EncodeToString(e.Blob),
		})
	}
	for _, pk := range t.Holders {
		d.Holders = append(d.Holders, hex.EncodeToString(pk))
	}
	if t.LatestUpdate != nil {
		u := t.LatestUpdate.DTO()
		d.LatestUpdate = &u
	}
	return d
}

func (l *TokenList) DTO() TokenListDTO {
	d := TokenListDTO{Tokens: make([]TokenSummaryDTO, 0, len(l.Tokens)), Skipped: diagnostics(l.Skipped)}
	for _, t := range l.Tokens {
		d.Tokens = append(d.Tokens, TokenSummaryDTO{
			TokenID: t.TokenID.String(),
			Name:    t.Name,
			Origin:  hex.EncodeToString(t.Origin),
			Supply:  t.Supply,
		})
	}
	return d
}

func (b *Balance) DTO() BalanceDTO {
	return BalanceDTO{
		TokenID: b.TokenID.String(),
		PubKey:  hex.EncodeToString(b.PubKey),
		Address: b.Address,
		Balance: b.Balance,
		Supply:  b.Supply,
		Percent: b.Percent,
		Skipped: diagnostics(b.Skipped),
	}
}

func (o *TokenOwners) DTO() TokenOwnersDTO {
	d := TokenOwnersDTO{
		TokenID: o.TokenID.String(),
		Owners:  make([]HoldingDTO, 0, len(o.Owners)),
		Skipped: diagnostics(o.Skipped),
	}
	for _, h := range o.Owners {
		d.Owners = append(d.Owners, HoldingDTO{
			PubKey:  hex.EncodeToString(h.PubKey),
			Address: h.Address,
			Balance: h.Balance,
		})
	}
	return d
}

func (i *TokenInventory) DTO() TokenInventoryDTO {
	d := TokenInventoryDTO{
		PubKey:  hex.EncodeToString(i.PubKey),
		Tokens:  make([]InventoryItemDTO, 0, len(i.Tokens)),
		Skipped: diagnostics(i.Skipped),
	}
	for _, t := range i.Tokens {
		d.Tokens = append(d.Tokens, InventoryItemDTO{TokenID: t.TokenID.String(), Name: t.Name, Balance: t.Balance})
	}
	return d
}

func OwnersDTO(owners []chain.Owner) []OwnerDTO {
	out := make([]OwnerDTO, 0, len(owners))
	for _, o := range owners {
		out = append(out, OwnerDTO{PubKey: hex.EncodeToString(o.PubKey), TxID: o.TxID.String()})
	}
	return out
}

func TokenUpdatesDTO(views []TokenUpdateView) []TokenUpdateDTO {
	out := make([]TokenUpdateDTO, 0, len(views))
	for _, v := range views {
		out = append(out, v.DTO())
	}
	return out
}

func (a *AgreementInfo) DTO() AgreementInfoDTO {
	d := AgreementInfoDTO{
		TxID:     a.TxID.String(),
		Height:   a.Height,
		Type:     a.Type,
		Status:   a.Status,
		Record:   opret.ToDTO(a.Record),
		Updates:  a.Updates,
		Disputes: a.Disputes,
	}
	if a.Terms != nil {
		terms := opret.ToDTO(a.Terms)
		d.Terms = &terms
	}
	return d
}

func (l *AgreementList) DTO() AgreementListDTO {
	d := AgreementListDTO{
		Agreements: make([]AgreementSummaryDTO, 0, len(l.Agreements)),
		Skipped:    diagnostics(l.Skipped),
	}
	for _, a := range l.Agreements {
		d.Agreements = append(d.Agreements, AgreementSummaryDTO{
			TxID:   a.TxID.String(),
			Type:   a.Type,
			Name:   a.Name,
			Status: a.Status,
		})
	}
	return d
}

func (s *AgreementStatus) DTO() AgreementStatusDTO {
	d := AgreementStatusDTO{
		TxID:         s.TxID.String(),
		Status:       s.Status,
		LatestUpdate: hashOrEmpty(s.LatestUpdate),
		OpenDisputes: make([]string, 0, len(s.OpenDisputes)),
	}
	for _, id := range s.OpenDisputes {
		d.OpenDisputes = append(d.OpenDisputes, id.String())
	}
	return d
}

func RecordViewsDTO(views []RecordView) []RecordViewDTO {
	out := make([]RecordViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, RecordViewDTO{TxID: v.TxID.String(), Height: v.Height, Record: opret.ToDTO(v.Record)})
	}
	return out
}

func DisputesDTO(views []DisputeView) []DisputeDTO {
	out := make([]DisputeDTO, 0, len(views))
	for _, v := range views {
		out = append(out, DisputeDTO{
			TxID:       v.TxID.String(),
			Height:     v.Height,
			Initiator:  hex.EncodeToString(v.Initiator),
			Type:       string(rune(v.Type)),
			Hash:       hashOrEmpty(v.Hash),
			Resolution: hashOrEmpty(v.Resolution),
		})
	}
	return out
}
