package ledgertest

import (
	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ProposalRecord - предложение нового контракта с заполненными обязательными полями.
func ProposalRecord(initiator, receiver, mediator []byte) *opret.AgreementProposal {
	rec := &opret.AgreementProposal{
		ProposalType: opret.ProposalCreate,
		Initiator:    initiator,
		Receiver:     receiver,
		Mediator:     mediator,
		DataHash:     Hash(0x50),
		Name:         "supply contract",
	}
	if len(mediator) > 0 {
		rec.MediatorFee = cc.MinMediatorFee
		rec.Deposit = 2 * cc.MinDeposit
	}
	return rec
}

// Propose: vout0 маркер, vout1 крючок ответа. extra - траты предыдущего предложения.
func (b *Builder) Propose(rec *opret.AgreementProposal, extra ...ledger.TxIn) *ledger.Tx {
	b.t.Helper()
	hook := b.CC(b.Agreements(), cc.ResponseValue, rec.Initiator)
	if len(rec.Receiver) > 0 {
		hook = b.CC1of2(b.Agreements(), cc.ResponseValue, rec.Initiator, rec.Receiver)
	}
	inputs := append([]ledger.TxIn{b.Funding(rec.Initiator)}, extra...)
	return b.Tx(rec, inputs, b.Marker(b.Agreements()), hook)
}

func (b *Builder) CloseProposal(proposal *ledger.Tx, closer []byte) *ledger.Tx {
	b.t.Helper()
	rec := &opret.AgreementClose{ProposalID: proposal.ID, Initiator: closer, Message: "withdrawn"}
	return b.Tx(rec,
		[]ledger.TxIn{b.Funding(closer), Spend(proposal, 1, closer)},
		b.Normal(cc.ResponseValue, closer),
	)
}

// Sign принимает предложение и создает контракт со всеми батонами.
func (b *Builder) Sign(proposal *ledger.Tx, p *opret.AgreementProposal) *ledger.Tx {
	b.t.Helper()
	deposit := cc.MarkerValue
	if len(p.Mediator) > 0 {
		deposit = p.Deposit
	}
	return b.Tx(&opret.AgreementSigning{ProposalID: proposal.ID},
		[]ledger.TxIn{b.Funding(p.Receiver), Spend(proposal, 1, p.Receiver)},
		b.Marker(b.Agreements()),
		b.CC1of2(b.Agreements(), cc.BatonValue, p.Initiator, p.Receiver),
		b.CC(b.Agreements(), cc.BatonValue, p.Initiator),
		b.CC(b.Agreements(), cc.BatonValue, p.Receiver),
		ledger.TxOut{Value: deposit, Address: b.Addr.UnspendableAddress(b.Agreements()), EvalCode: b.Agreements()},
	)
}

// CreateAgreement - прямое создание без раунда предложений.
func (b *Builder) CreateAgreement(creator, client []byte, deposit int64) *ledger.Tx {
	b.t.Helper()
	rec := &opret.AgreementCreate{
		Creator:  creator,
		Client:   client,
		Deposit:  deposit,
		Timelock: 100,
		DataHash: Hash(0x4e),
		Name:     "direct",
	}
	return b.Tx(rec,
		[]ledger.TxIn{b.Funding(creator)},
		b.Marker(b.Agreements()),
		b.CC1of2(b.Agreements(), deposit, creator, client),
	)
}

// AmendmentRecord возвращает предложение-изменение контракта (тип 'u' или 't').
func AmendmentRecord(kind byte, initiator, receiver []byte, agreementID chainhash.Hash, cut int64) *opret.AgreementProposal {
	rec := &opret.AgreementProposal{
		ProposalType: kind,
		Initiator:    initiator,
		Receiver:     receiver,
		DataHash:     Hash(kind),
		AgreementID:  agreementID,
		Name:         "amendment",
	}
	if kind == opret.ProposalTerminate {
		rec.DepositCut = cut
	}
	return rec
}

// UpdateParams описывает транзакцию обновления контракта.
type UpdateParams struct {
	Contract     *opret.AgreementProposal
	Baton        ledger.TxIn
	Proposal     *ledger.Tx
	Record       *opret.AgreementProposal
	LastUpdateID chainhash.Hash
	Confirmer    []byte
	// Deposit - вход депозита контракта, нужен только при расторжении.
	Deposit *ledger.TxIn
	Amount  int64
}

func (b *Builder) UpdateAgreement(p UpdateParams) *ledger.Tx {
	b.t.Helper()
	rec := &opret.AgreementUpdate{
		Confirmer:    p.Confirmer,
		LastUpdateID: p.LastUpdateID,
		ProposalID:   p.Proposal.ID,
		UpdateType:   p.Record.ProposalType,
	}
	inputs := []ledger.TxIn{b.Funding(p.Confirmer), p.Baton, Spend(p.Proposal, 1, p.Confirmer)}
	outs := []ledger.TxOut{b.CC1of2(b.Agreements(), cc.BatonValue, p.Contract.Initiator, p.Contract.Receiver)}
	if p.Deposit != nil {
		inputs = append(inputs, *p.Deposit)
		cut := p.Amount * p.Record.DepositCut / 100
		outs = append(outs,
			b.Normal(p.Amount-cut, p.Record.Initiator),
			b.Normal(cut, p.Record.Receiver),
		)
	}
	return b.Tx(rec, inputs, outs...)
}

// Dispute открывает спор стороны party, тратя ее батон споров.
func (b *Builder) Dispute(agreementID chainhash.Hash, party, mediator []byte, baton ledger.TxIn, last chainhash.Hash, fee int64) *ledger.Tx {
	b.t.Helper()
	rec := &opret.AgreementDispute{
		AgreementID:   agreementID,
		Initiator:     party,
		LastDisputeID: last,
		DisputeType:   'g',
		DisputeHash:   Hash(0x44),
	}
	return b.Tx(rec,
		[]ledger.TxIn{b.Funding(party), baton},
		b.CC(b.Agreements(), cc.BatonValue, party),
		b.CC1of2(b.Agreements(), fee, party, mediator),
	)
}

// Resolve закрывает спор посредником; deposit - вход депозита контракта, если он еще не потрачен.
func (b *Builder) Resolve(dispute *ledger.Tx, mediator, rewarded []byte, deposit *ledger.TxIn, amount int64) *ledger.Tx {
	b.t.Helper()
	rec := &opret.AgreementResolve{
		DisputeID: dispute.ID,
		Verdict:   'w',
		Rewarded:  rewarded,
		Message:   "resolved",
	}
	inputs := []ledger.TxIn{Spend(dispute, 1, mediator)}
	outs := []ledger.TxOut{b.Normal(cc.MinMediatorFee, mediator)}
	if deposit != nil {
		inputs = append(inputs, *deposit)
		outs = append(outs, b.Normal(amount, rewarded))
	}
	return b.Tx(rec, inputs, outs...)
}
