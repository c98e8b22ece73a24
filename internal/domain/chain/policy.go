package chain

import (
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Policy описывает, как батон переходит от транзакции к транзакции.
// Genesis - номер выхода-батона в транзакции сущности, Successor - в каждой
// следующей. Link проверяет, что потратившая батон запись относится к сущности;
// prev - txid предыдущего шага.
type Policy struct {
	Name      string
	Genesis   uint32
	Successor uint32
	Link      func(entity, prev chainhash.Hash, rec opret.Record) bool
}

// TokenPolicy: батон токена начинается с выхода эмиссии (vout1) создания
// и переходит на vout0 каждого перевода или обновления.
var TokenPolicy = Policy{
	Name:      "token",
	Genesis:   1,
	Successor: 0,
	Link: func(entity, _ chainhash.Hash, rec opret.Record) bool {
		switch r := rec.(type) {
		case *opret.TokenTransfer:
			return r.TokenID == entity
		case *opret.TokenUpdate:
			return r.TokenID == entity
		}
		return false
	},
}

// AgreementUpdatePolicy: батон обновлений - vout1 контракта, затем vout0 каждого обновления.
var AgreementUpdatePolicy = Policy{
	Name:      "agreement update",
	Genesis:   1,
	Successor: 0,
	Link: func(entity, prev chainhash.Hash, rec opret.Record) bool {
		r, ok := rec.(*opret.AgreementUpdate)
		return ok && linksTo(entity, prev, r.LastUpdateID)
	},
}

// Выходы-батоны споров в транзакции контракта.
const (
	InitiatorDisputeVout uint32 = 2
	ReceiverDisputeVout  uint32 = 3
)

// DisputePolicy - батон споров одной из сторон контракта (vout2 или vout3).
func DisputePolicy(genesis uint32) Policy {
	return Policy{
		Name:      "dispute",
		Genesis:   genesis,
		Successor: 0,
		Link: func(entity, prev chainhash.Hash, rec opret.Record) bool {
			r, ok := rec.(*opret.AgreementDispute)
			return ok && r.AgreementID == entity && linksTo(entity, prev, r.LastDisputeID)
		},
	}
}

// linksTo: первая запись цепочки ссылается на нулевой id, остальные - на предыдущий шаг.
func linksTo(entity, prev, last chainhash.Hash) bool {
	if prev == entity {
		return last == (chainhash.Hash{})
	}
	return last == prev
}

// PrevFunc извлекает ссылку на предыдущую запись. ok == false означает,
// что запись не того типа.
type PrevFunc func(rec opret.Record) (prev chainhash.Hash, ok bool)

func ProposalPrev(rec opret.Record) (chainhash.Hash, bool) {
	r, ok := rec.(*opret.AgreementProposal)
	if !ok {
		return chainhash.Hash{}, false
	}
	return r.PrevProposalID, true
}

func AgreementUpdatePrev(rec opret.Record) (chainhash.Hash, bool) {
	r, ok := rec.(*opret.AgreementUpdate)
	if !ok {
		return chainhash.Hash{}, false
	}
	return r.LastUpdateID, true
}

func DisputePrev(rec opret.Record) (chainhash.Hash, bool) {
	r, ok := rec.(*opret.AgreementDispute)
	if !ok {
		return chainhash.Hash{}, false
	}
	return r.LastDisputeID, true
}

func TokenUpdatePrev(rec opret.Record) (chainhash.Hash, bool) {
	r, ok := rec.(*opret.TokenUpdate)
	if !ok {
		return chainhash.Hash{}, false
	}
	return r.PrevUpdateID, true
}
