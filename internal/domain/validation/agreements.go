package validation

import (
	"bytes"
	"context"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func (v *Validator) validateAgreements(ctx context.Context, tx *ledger.Tx, rec opret.Record) (State, error) {
	switch r := rec.(type) {
	case *opret.AgreementProposal:
		state := ProposalDraft
		if r.PrevProposalID != (chainhash.Hash{}) {
			state = ProposalAmended
		}
		return state, v.proposal(ctx, tx, r)
	case *opret.AgreementClose:
		return ProposalClosed, v.closeProposal(ctx, tx, r)
	case *opret.AgreementSigning:
		return ContractActive, v.signing(ctx, tx, r)
	case *opret.AgreementCreate:
		return ContractActive, v.create(tx, r)
	case *opret.AgreementUpdate:
		state := ContractUpdated
		if r.UpdateType == opret.UpdateTerminate {
			state = ContractTerminated
		}
		return state, v.update(ctx, tx, r)
	case *opret.AgreementDispute:
		return ContractDisputed, v.dispute(ctx, tx, r)
	case *opret.AgreementResolve:
		return ContractResolved, v.resolve(ctx, tx, r)
	}
	return "", cc.WithTx(cc.UnknownType("agreement record %s", opret.TypeName(rec)), tx.ID.String())
}

// contract - подписанное соглашение вместе с принятыми условиями.
type contract struct {
	id    chainhash.Hash
	tx    *ledger.Tx
	terms *opret.AgreementProposal
}

func (c *contract) deposit() int64 {
	if len(c.terms.Mediator) == 0 {
		return 0
	}
	return c.terms.Deposit
}

func (c *contract) isParty(pk []byte) bool {
	return len(pk) > 0 && (bytes.Equal(pk, c.terms.Initiator) || bytes.Equal(pk, c.terms.Receiver))
}

func (v *Validator) loadContract(ctx context.Context, tx *ledger.Tx, id chainhash.Hash) (*contract, error) {
	step, err := v.load(ctx, tx, id, "agreement")
	if err != nil {
		return nil, err
	}
	sig, ok := step.Record.(*opret.AgreementSigning)
	if !ok {
		return nil, cc.Linkage(tx.ID.String(), "agreement %s is a %s", id, opret.TypeName(step.Record))
	}
	terms, err := v.load(ctx, tx, sig.ProposalID, "accepted proposal")
	if err != nil {
		return nil, err
	}
	p, ok := terms.Record.(*opret.AgreementProposal)
	if !ok {
		return nil, cc.Linkage(tx.ID.String(), "agreement %s accepts a %s", id, opret.TypeName(terms.Record))
	}
	return &contract{id: id, tx: step.Tx, terms: p}, nil
}

// updateChain возвращает цепочку обновлений контракта без кандидата
// и признак того, что контракт уже расторгнут.
func (v *Validator) updateChain(ctx context.Context, tx *ledger.Tx, c *contract) ([]chain.Step, bool, error) {
	steps, err := v.walker.BatonChain(ctx, c.id, chain.AgreementUpdatePolicy)
	if err != nil {
		return nil, false, err
	}
	steps = before(steps, tx.ID)
	upd, ok := steps[len(steps)-1].Record.(*opret.AgreementUpdate)
	return steps, ok && upd.UpdateType == opret.UpdateTerminate, nil
}

func (v *Validator) proposal(ctx context.Context, tx *ledger.Tx, r *opret.AgreementProposal) error {
	txid := tx.ID.String()
	eval := v.codec.Modules().Agreements

	if err := checkOutput(tx, 0, eval, v.addr.UnspendableAddress(eval), cc.MarkerValue, "marker"); err != nil {
		return err
	}
	hook := v.addr.CCAddress(eval, r.Initiator)
	if len(r.Receiver) > 0 {
		hook = v.addr.CC1of2Address(eval, r.Initiator, r.Receiver)
	}
	if err := checkOutput(tx, 1, eval, hook, cc.ResponseValue, "response hook"); err != nil {
		return err
	}

	if !validKey(r.Initiator) {
		return cc.BusinessRule(txid, "invalid initiator pubkey")
	}
	if len(r.Receiver) > 0 && !validKey(r.Receiver) {
		return cc.BusinessRule(txid, "invalid receiver pubkey")
	}
	if len(r.Mediator) > 0 && !validKey(r.Mediator) {
		return cc.BusinessRule(txid, "invalid mediator pubkey")
	}
	if !tx.SignedBy(r.Initiator) {
		return cc.BusinessRule(txid, "proposal is not signed by initiator")
	}
	if err := disjoint(txid, r.Initiator, r.Receiver, r.Mediator); err != nil {
		return err
	}
	if r.Name == "" || len(r.Name) > opret.MaxAgreementNameLen {
		return cc.BusinessRule(txid, "agreement name must be 1..%d bytes", opret.MaxAgreementNameLen)
	}
	if len(r.Description) > opret.MaxMessageLen {
		return cc.BusinessRule(txid, "description longer than %d bytes", opret.MaxMessageLen)
	}
	if r.DataHash == (chainhash.Hash{}) {
		return cc.BusinessRule(txid, "data hash must be set")
	}

	if len(r.Mediator) > 0 {
		if r.MediatorFee < cc.MinMediatorFee {
			return cc.BusinessRule(txid, "mediator fee %d below minimum %d", r.MediatorFee, cc.MinMediatorFee)
		}
		if r.Deposit < cc.MinDeposit {
			return cc.BusinessRule(txid, "deposit %d below minimum %d", r.Deposit, cc.MinDeposit)
		}
	} else if r.MediatorFee != 0 || r.Deposit != 0 {
		return cc.BusinessRule(txid, "mediator fee and deposit require a mediator")
	}
	if r.ProposalType != opret.ProposalTerminate && r.DepositCut != 0 {
		return cc.BusinessRule(txid, "deposit cut is only allowed in termination proposals")
	}
	if r.DepositCut < 0 || r.DepositCut > 100 {
		return cc.BusinessRule(txid, "deposit cut %d out of range 0..100", r.DepositCut)
	}

	if err := v.proposalReference(ctx, tx, r); err != nil {
		return err
	}
	if r.PrevProposalID != (chainhash.Hash{}) {
		return v.amendment(ctx, tx, r)
	}
	return nil
}

// proposalReference проверяет ссылку на существующий контракт.
func (v *Validator) proposalReference(ctx context.Context, tx *ledger.Tx, r *opret.AgreementProposal) error {
	txid := tx.ID.String()
	if r.ProposalType == opret.ProposalCreate {
		if r.AgreementID == (chainhash.Hash{}) {
			return nil
		}
		_, err := v.loadContract(ctx, tx, r.AgreementID)
		return err
	}

	if len(r.Receiver) == 0 {
		return cc.BusinessRule(txid, "update and termination proposals need a receiver")
	}
	if r.AgreementID == (chainhash.Hash{}) {
		return cc.BusinessRule(txid, "update and termination proposals need an agreement id")
	}
	c, err := v.loadContract(ctx, tx, r.AgreementID)
	if err != nil {
		return err
	}
	if !samePair(r.Initiator, r.Receiver, c.terms.Initiator, c.terms.Receiver) {
		return cc.Linkage(txid, "agreement %s is between other parties", r.AgreementID)
	}
	_, terminated, err := v.updateChain(ctx, tx, c)
	if err != nil {
		return err
	}
	if terminated {
		return cc.BusinessRule(txid, "agreement %s is already terminated", r.AgreementID)
	}
	if r.ProposalType == opret.ProposalTerminate {
		if deposit := c.deposit(); !splitsEvenly(deposit, r.DepositCut) {
			return cc.BusinessRule(txid, "deposit %d cannot be split at %d%% without remainder", deposit, r.DepositCut)
		}
	}
	return nil
}

// amendment - предложение, заменяющее предыдущее того же инициатора.
func (v *Validator) amendment(ctx context.Context, tx *ledger.Tx, r *opret.AgreementProposal) error {
	txid := tx.ID.String()
	prevStep, err := v.load(ctx, tx, r.PrevProposalID, "previous proposal")
	if err != nil {
		return err
	}
	prev, ok := prevStep.Record.(*opret.AgreementProposal)
	if !ok {
		return cc.Linkage(txid, "previous proposal %s is a %s", r.PrevProposalID, opret.TypeName(prevStep.Record))
	}
	if !bytes.Equal(prev.Initiator, r.Initiator) {
		return cc.BusinessRule(txid, "previous proposal has another initiator")
	}
	if prev.ProposalType != r.ProposalType {
		return cc.BusinessRule(txid, "proposal type changed from %q to %q", prev.ProposalType, r.ProposalType)
	}
	if len(prev.Receiver) > 0 && !bytes.Equal(prev.Receiver, r.Receiver) {
		return cc.BusinessRule(txid, "receiver of previous proposal cannot be removed or changed")
	}
	return v.requireSpend(ctx, tx, ledger.OutPoint{Hash: r.PrevProposalID, Index: 1}, "previous proposal hook")
}

func (v *Validator) closeProposal(ctx context.Context, tx *ledger.Tx, r *opret.AgreementClose) error {
	txid := tx.ID.String()
	step, err := v.load(ctx, tx, r.ProposalID, "proposal")
	if err != nil {
		return err
	}
	p, ok := step.Record.(*opret.AgreementProposal)
	if !ok {
		return cc.Linkage(txid, "closed transaction %s is a %s", r.ProposalID, opret.TypeName(step.Record))
	}
	if err := v.requireSpend(ctx, tx, ledger.OutPoint{Hash: r.ProposalID, Index: 1}, "proposal hook"); err != nil {
		return err
	}
	if !tx.SignedBy(r.Initiator) {
		return cc.BusinessRule(txid, "close is not signed by %x", r.Initiator)
	}
	isReceiver := len(p.Receiver) > 0 && bytes.Equal(r.Initiator, p.Receiver)
	if !bytes.Equal(r.Initiator, p.Initiator) && !isReceiver {
		return cc.BusinessRule(txid, "only the initiator or receiver may close a proposal")
	}
	if len(r.Message) > opret.MaxMessageLen {
		return cc.BusinessRule(txid, "message longer than %d bytes", opret.MaxMessageLen)
	}
	return nil
}

func (v *Validator) signing(ctx context.Context, tx *ledger.Tx, r *opret.AgreementSigning) error {
	txid := tx.ID.String()
	eval := v.codec.Modules().Agreements

	step, err := v.load(ctx, tx, r.ProposalID, "proposal")
	if err != nil {
		return err
	}
	p, ok := step.Record.(*opret.AgreementProposal)
	if !ok {
		return cc.Linkage(txid, "accepted transaction %s is a %s", r.ProposalID, opret.TypeName(step.Record))
	}
	if p.ProposalType != opret.ProposalCreate {
		return cc.BusinessRule(txid, "proposal of type %q cannot create a contract", p.ProposalType)
	}
	if len(p.Receiver) == 0 {
		return cc.BusinessRule(txid, "proposal without receiver cannot be accepted")
	}
	if err := v.requireSpend(ctx, tx, ledger.OutPoint{Hash: r.ProposalID, Index: 1}, "proposal hook"); err != nil {
		return err
	}
	if !tx.SignedBy(p.Receiver) {
		return cc.BusinessRule(txid, "contract is not signed by the proposal receiver")
	}
	if err := disjoint(txid, p.Initiator, p.Receiver, p.Mediator); err != nil {
		return err
	}

	deposit := cc.MarkerValue
	exact := len(p.Mediator) > 0
	if exact {
		deposit = p.Deposit
	}
	outputs := []struct {
		address string
		min     int64
		what    string
	}{
		{v.addr.UnspendableAddress(eval), cc.MarkerValue, "marker"},
		{v.addr.CC1of2Address(eval, p.Initiator, p.Receiver), cc.BatonValue, "update baton"},
		{v.addr.CCAddress(eval, p.Initiator), cc.BatonValue, "initiator dispute baton"},
		{v.addr.CCAddress(eval, p.Receiver), cc.BatonValue, "receiver dispute baton"},
		{v.addr.UnspendableAddress(eval), deposit, "deposit"},
	}
	for i, o := range outputs {
		if err := checkOutput(tx, i, eval, o.address, o.min, o.what); err != nil {
			return err
		}
	}
	if exact && tx.Outputs[4].Value != deposit {
		return cc.Structural(txid, 4, "deposit output value %d, want %d", tx.Outputs[4].Value, deposit)
	}
	return nil
}

func (v *Validator) create(tx *ledger.Tx, r *opret.AgreementCreate) error {
	txid := tx.ID.String()
	eval := v.codec.Modules().Agreements

	if !validKey(r.Creator) || !validKey(r.Client) {
		return cc.BusinessRule(txid, "invalid creator or client pubkey")
	}
	if bytes.Equal(r.Creator, r.Client) {
		return cc.BusinessRule(txid, "creator and client must differ")
	}
	if !tx.SignedBy(r.Creator) {
		return cc.BusinessRule(txid, "agreement is not signed by creator")
	}
	if r.Timelock < 0 {
		return cc.BusinessRule(txid, "negative timelock")
	}
	if r.Name == "" || len(r.Name) > opret.MaxAgreementNameLen {
		return cc.BusinessRule(txid, "agreement name must be 1..%d bytes", opret.MaxAgreementNameLen)
	}
	if r.Deposit < cc.MinDeposit {
		return cc.BusinessRule(txid, "deposit %d below minimum %d", r.Deposit, cc.MinDeposit)
	}
	if err := checkOutput(tx, 0, eval, v.addr.UnspendableAddress(eval), cc.MarkerValue, "marker"); err != nil {
		return err
	}
	if err := checkOutput(tx, 1, eval, v.addr.CC1of2Address(eval, r.Creator, r.Client), r.Deposit, "deposit"); err != nil {
		return err
	}
	if tx.Outputs[1].Value != r.Deposit {
		return cc.Structural(txid, 1, "deposit output value %d, want %d", tx.Outputs[1].Value, r.Deposit)
	}
	return nil
}

func (v *Validator) update(ctx context.Context, tx *ledger.Tx, r *opret.AgreementUpdate) error {
	txid := tx.ID.String()
	eval := v.codec.Modules().Agreements

	step, err := v.load(ctx, tx, r.ProposalID, "update proposal")
	if err != nil {
		return err
	}
	p, ok := step.Record.(*opret.AgreementProposal)
	if !ok {
		return cc.Linkage(txid, "update proposal %s is a %s", r.ProposalID, opret.TypeName(step.Record))
	}
	if p.ProposalType != opret.ProposalUpdate && p.ProposalType != opret.ProposalTerminate {
		return cc.BusinessRule(txid, "proposal of type %q cannot update a contract", p.ProposalType)
	}
	if p.ProposalType != r.UpdateType {
		return cc.BusinessRule(txid, "update type %q does not match proposal type %q", r.UpdateType, p.ProposalType)
	}
	c, err := v.loadContract(ctx, tx, p.AgreementID)
	if err != nil {
		return err
	}

	steps, terminated, err := v.updateChain(ctx, tx, c)
	if err != nil {
		return err
	}
	if terminated {
		return cc.BusinessRule(txid, "agreement %s is already terminated", c.id)
	}
	latest := steps[len(steps)-1]
	var expected chainhash.Hash
	if latest.Tx.ID != c.id {
		expected = latest.Tx.ID
	}
	if r.LastUpdateID != expected {
		return cc.Linkage(txid, "last update %s, latest is %s", r.LastUpdateID, expected)
	}
	if err := v.requireSpend(ctx, tx, chain.BatonOutPoint(c.id, latest, chain.AgreementUpdatePolicy), "update baton"); err != nil {
		return err
	}
	if err := v.requireSpend(ctx, tx, ledger.OutPoint{Hash: r.ProposalID, Index: 1}, "proposal hook"); err != nil {
		return err
	}

	if !tx.SignedBy(r.Confirmer) {
		return cc.BusinessRule(txid, "update is not signed by confirmer")
	}
	if !c.isParty(r.Confirmer) || bytes.Equal(r.Confirmer, p.Initiator) {
		return cc.BusinessRule(txid, "confirmer must be the other contract party")
	}

	batonAddr := v.addr.CC1of2Address(eval, c.terms.Initiator, c.terms.Receiver)
	if err := checkOutput(tx, 0, eval, batonAddr, cc.BatonValue, "update baton"); err != nil {
		return err
	}

	if r.UpdateType != opret.UpdateTerminate {
		return nil
	}
	return v.releaseDeposit(ctx, tx, c, func(deposit int64) error {
		cut := deposit * p.DepositCut / 100
		if err := checkPayment(tx, 1, v.addr.NormalAddress(p.Initiator), deposit-cut, "initiator deposit share"); err != nil {
			return err
		}
		return checkPayment(tx, 2, v.addr.NormalAddress(p.Receiver), cut, "receiver deposit share")
	})
}

// releaseDeposit требует трату депозита контракта (vout4) и проверяет выплату,
// если депозит есть и еще не потрачен другой транзакцией.
func (v *Validator) releaseDeposit(ctx context.Context, tx *ledger.Tx, c *contract, pay func(deposit int64) error) error {
	deposit := c.deposit()
	if deposit == 0 {
		return nil
	}
	op := ledger.OutPoint{Hash: c.id, Index: 4}
	taken, err := v.spentElsewhere(ctx, tx, op)
	if err != nil {
		return err
	}
	if taken {
		return nil
	}
	if !tx.Spends(op) {
		return cc.Linkage(tx.ID.String(), "contract deposit %s:4 is not spent", c.id)
	}
	return pay(deposit)
}

func (v *Validator) dispute(ctx context.Context, tx *ledger.Tx, r *opret.AgreementDispute) error {
	txid := tx.ID.String()
	eval := v.codec.Modules().Agreements

	c, err := v.loadContract(ctx, tx, r.AgreementID)
	if err != nil {
		return err
	}
	if len(c.terms.Mediator) == 0 {
		return cc.BusinessRule(txid, "agreement %s has no mediator", c.id)
	}
	if !c.isParty(r.Initiator) {
		return cc.BusinessRule(txid, "dispute initiator is not a contract party")
	}
	if !tx.SignedBy(r.Initiator) {
		return cc.BusinessRule(txid, "dispute is not signed by initiator")
	}
	if _, terminated, err := v.updateChain(ctx, tx, c); err != nil {
		return err
	} else if terminated {
		return cc.BusinessRule(txid, "agreement %s is already terminated", c.id)
	}

	genesis := chain.InitiatorDisputeVout
	if bytes.Equal(r.Initiator, c.terms.Receiver) {
		genesis = chain.ReceiverDisputeVout
	}
	policy := chain.DisputePolicy(genesis)
	steps, err := v.walker.BatonChain(ctx, c.id, policy)
	if err != nil {
		return err
	}
	steps = before(steps, tx.ID)
	latest := steps[len(steps)-1]

	var expected chainhash.Hash
	if latest.Tx.ID != c.id {
		expected = latest.Tx.ID
		open, err := v.walker.Spender(ctx, latest.Tx.ID, 1)
		if err != nil {
			return err
		}
		if open == nil {
			return cc.BusinessRule(txid, "previous dispute %s is still open", latest.Tx.ID)
		}
	}
	if r.LastDisputeID != expected {
		return cc.Linkage(txid, "last dispute %s, latest is %s", r.LastDisputeID, expected)
	}
	if err := v.requireSpend(ctx, tx, chain.BatonOutPoint(c.id, latest, policy), "dispute baton"); err != nil {
		return err
	}

	if err := checkOutput(tx, 0, eval, v.addr.CCAddress(eval, r.Initiator), cc.BatonValue, "dispute baton"); err != nil {
		return err
	}
	hook := v.addr.CC1of2Address(eval, r.Initiator, c.terms.Mediator)
	return checkOutput(tx, 1, eval, hook, c.terms.MediatorFee, "dispute hook")
}

func (v *Validator) resolve(ctx context.Context, tx *ledger.Tx, r *opret.AgreementResolve) error {
	txid := tx.ID.String()

	step, err := v.load(ctx, tx, r.DisputeID, "dispute")
	if err != nil {
		return err
	}
	d, ok := step.Record.(*opret.AgreementDispute)
	if !ok {
		return cc.Linkage(txid, "resolved transaction %s is a %s", r.DisputeID, opret.TypeName(step.Record))
	}
	c, err := v.loadContract(ctx, tx, d.AgreementID)
	if err != nil {
		return err
	}
	if err := v.requireSpend(ctx, tx, ledger.OutPoint{Hash: r.DisputeID, Index: 1}, "dispute hook"); err != nil {
		return err
	}
	if !tx.SignedBy(c.terms.Mediator) {
		return cc.BusinessRule(txid, "resolution is not signed by the mediator")
	}
	if !c.isParty(r.Rewarded) {
		return cc.BusinessRule(txid, "rewarded pubkey is not a contract party")
	}
	if len(r.Message) > opret.MaxMessageLen {
		return cc.BusinessRule(txid, "message longer than %d bytes", opret.MaxMessageLen)
	}
	return v.releaseDeposit(ctx, tx, c, func(deposit int64) error {
		return checkPayment(tx, 1, v.addr.NormalAddress(r.Rewarded), deposit, "deposit redeem")
	})
}

// disjoint: инициатор, получатель и посредник - разные ключи.
func disjoint(txid string, initiator, receiver, mediator []byte) error {
	if len(receiver) > 0 && bytes.Equal(initiator, receiver) {
		return cc.BusinessRule(txid, "initiator and receiver must differ")
	}
	if len(mediator) > 0 && bytes.Equal(initiator, mediator) {
		return cc.BusinessRule(txid, "initiator and mediator must differ")
	}
	if len(mediator) > 0 && len(receiver) > 0 && bytes.Equal(receiver, mediator) {
		return cc.BusinessRule(txid, "receiver and mediator must differ")
	}
	return nil
}

// splitsEvenly: доля cut процентов от депозита выражается целым числом монет.
func splitsEvenly(deposit, cut int64) bool {
	return (deposit*cut)%100 == 0
}
