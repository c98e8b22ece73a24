package opret

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// RecordDTO - JSON-представление декодированной записи для API и CLI.
// Хэши пишутся в порядке отображения, ключи и бинарные данные - в hex.
type RecordDTO struct {
	Type   string         `json:"type" doc:"Тип записи" example:"token-create"`
	Module string         `json:"module" doc:"Модуль записи"`
	FuncID string         `json:"funcid" doc:"Идентификатор функции"`
	Fields map[string]any `json:"fields" doc:"Поля записи"`
}

type ExtensionDTO struct {
	ID   uint8  `json:"id"`
	Name string `json:"name"`
	Blob string `json:"blob"`
}

func ToDTO(rec Record) RecordDTO {
	d := RecordDTO{
		Type:   TypeName(rec),
		Module: string(rec.Module()),
		FuncID: string(rune(rec.FuncID())),
		Fields: map[string]any{},
	}
	f := d.Fields
	switch r := rec.(type) {
	case *TokenCreate:
		f["origin"] = hex.EncodeToString(r.Origin)
		f["name"] = r.Name
		f["description"] = r.Description
		f["ownerperc"] = r.OwnerPerc
		f["tokentype"] = r.TokenType
		setHash(f, "reftokenid", r.RefTokenID)
		f["expirytimesec"] = r.ExpiryTimeSec
		setExtensions(f, r.Extensions)
	case *TokenTransfer:
		f["tokenid"] = r.TokenID.String()
		dests := make([]string, 0, len(r.Destinations))
		for _, pk := range r.Destinations {
			dests = append(dests, hex.EncodeToString(pk))
		}
		f["destinations"] = dests
		setExtensions(f, r.Extensions)
	case *TokenUpdate:
		f["tokenid"] = r.TokenID.String()
		setHash(f, "prevupdateid", r.PrevUpdateID)
		setHash(f, "datahash", r.DataHash)
		f["value"] = r.Value
		f["currencycode"] = r.CurrencyCode
		f["licensetype"] = r.LicenseType
		f["license"] = LicenseNames(r.LicenseType)
	case *AgreementProposal:
		f["proposaltype"] = string(rune(r.ProposalType))
		f["initiator"] = hex.EncodeToString(r.Initiator)
		setKey(f, "receiver", r.Receiver)
		setKey(f, "mediator", r.Mediator)
		f["mediatorfee"] = r.MediatorFee
		f["deposit"] = r.Deposit
		f["depositcut"] = r.DepositCut
		setHash(f, "datahash", r.DataHash)
		setHash(f, "agreementid", r.AgreementID)
		setHash(f, "prevproposalid", r.PrevProposalID)
		f["name"] = r.Name
		if r.Description != "" {
			f["description"] = r.Description
		}
	case *AgreementClose:
		f["proposalid"] = r.ProposalID.String()
		f["initiator"] = hex.EncodeToString(r.Initiator)
		f["message"] = r.Message
	case *AgreementSigning:
		f["proposalid"] = r.ProposalID.String()
	case *AgreementCreate:
		f["creator"] = hex.EncodeToString(r.Creator)
		f["client"] = hex.EncodeToString(r.Client)
		f["deposit"] = r.Deposit
		f["timelock"] = r.Timelock
		setHash(f, "datahash", r.DataHash)
		f["name"] = r.Name
	case *AgreementUpdate:
		f["confirmer"] = hex.EncodeToString(r.Confirmer)
		f["lastupdateid"] = r.LastUpdateID.String()
		f["proposalid"] = r.ProposalID.String()
		f["updatetype"] = string(rune(r.UpdateType))
	case *AgreementDispute:
		f["agreementid"] = r.AgreementID.String()
		f["initiator"] = hex.EncodeToString(r.Initiator)
		f["lastdisputeid"] = r.LastDisputeID.String()
		f["disputetype"] = string(rune(r.DisputeType))
		setHash(f, "disputehash", r.DisputeHash)
	case *AgreementResolve:
		f["disputeid"] = r.DisputeID.String()
		f["verdict"] = string(rune(r.Verdict))
		setKey(f, "rewarded", r.Rewarded)
		f["message"] = r.Message
	}
	return d
}

func setHash(f map[string]any, key string, h chainhash.Hash) {
	if h != (chainhash.Hash{}) {
		f[key] = h.String()
	}
}

func setKey(f map[string]any, key string, pk []byte) {
	if len(pk) > 0 {
		f[key] = hex.EncodeToString(pk)
	}
}

func setExtensions(f map[string]any, exts []Extension) {
	if len(exts) == 0 {
		return
	}
	out := make([]ExtensionDTO, 0, len(exts))
	for _, e := range exts {
		out = append(out, ExtensionDTO{ID: uint8(e.ID), Name: e.ID.String(), Blob: hex.EncodeToString(e.Blob)})
	}
	f["extensions"] = out
}

var licenseNames = []struct {
	flag int32
	name string
}{
	{TLFNoCopyright, "nocopyright"},
	{TLFPerform, "perform"},
	{TLFDisplay, "display"},
	{TLFCopy, "copy"},
	{TLFModify, "modify"},
	{TLFDistribute, "distribute"},
	{TLFSublicense, "sublicense"},
}

// LicenseNames раскладывает флаги лицензии в имена. Неизвестные биты
// выводятся одним элементом в hex.
func LicenseNames(flags int32) []string {
	names := []string{}
	for _, l := range licenseNames {
		if flags&l.flag != 0 {
			names = append(names, l.name)
		}
	}
	if rest := flags &^ TLFAll; rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", rest))
	}
	return names
}
