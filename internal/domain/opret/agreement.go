package opret

import (
	"antaracc/internal/domain/cc"
)

func encodeProposal(w *writer, r *AgreementProposal) error {
	if len(r.Name) > MaxAgreementNameLen {
		return cc.Malformed("agreement name longer than %d bytes", MaxAgreementNameLen)
	}
	if len(r.Description) > MaxMessageLen {
		return cc.Malformed("agreement description longer than %d bytes", MaxMessageLen)
	}
	switch r.ProposalType {
	case ProposalCreate, ProposalUpdate, ProposalTerminate:
	default:
		return cc.Malformed("unknown proposal type %q", r.ProposalType)
	}
	w.uint8(r.ProposalType)
	w.vector(r.Initiator)
	w.vector(r.Receiver)
	w.vector(r.Mediator)
	w.int64(r.MediatorFee)
	w.int64(r.Deposit)
	w.int64(r.DepositCut)
	w.hash(r.DataHash)
	w.hash(r.AgreementID)
	w.hash(r.PrevProposalID)
	w.string(r.Name)
	// описание дописано в конец формата и пишется только если задано
	if r.Description != "" {
		w.string(r.Description)
	}
	return nil
}

func decodeProposal(r *reader) (*AgreementProposal, error) {
	var (
		rec AgreementProposal
		err error
	)
	if rec.ProposalType, err = r.uint8("proposal type"); err != nil {
		return nil, err
	}
	switch rec.ProposalType {
	case ProposalCreate, ProposalUpdate, ProposalTerminate:
	default:
		return nil, cc.Malformed("unknown proposal type %q", rec.ProposalType)
	}
	if rec.Initiator, err = r.vector("initiator", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.Receiver, err = r.vector("receiver", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.Mediator, err = r.vector("mediator", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.MediatorFee, err = r.int64("mediator fee"); err != nil {
		return nil, err
	}
	if rec.Deposit, err = r.int64("deposit"); err != nil {
		return nil, err
	}
	if rec.DepositCut, err = r.int64("deposit cut"); err != nil {
		return nil, err
	}
	if rec.DataHash, err = r.hash("data hash"); err != nil {
		return nil, err
	}
	if rec.AgreementID, err = r.hash("agreement id"); err != nil {
		return nil, err
	}
	if rec.PrevProposalID, err = r.hash("previous proposal id"); err != nil {
		return nil, err
	}
	if rec.Name, err = r.string("name", MaxAgreementNameLen); err != nil {
		return nil, err
	}
	if !r.eof() {
		if rec.Description, err = r.string("description", MaxMessageLen); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func encodeClose(w *writer, r *AgreementClose) error {
	if len(r.Message) > MaxMessageLen {
		return cc.Malformed("message longer than %d bytes", MaxMessageLen)
	}
	w.hash(r.ProposalID)
	w.vector(r.Initiator)
	w.string(r.Message)
	return nil
}

func decodeClose(r *reader) (*AgreementClose, error) {
	var (
		rec AgreementClose
		err error
	)
	if rec.ProposalID, err = r.hash("proposal id"); err != nil {
		return nil, err
	}
	if rec.Initiator, err = r.vector("initiator", MaxPubKeyLen); err != nil {
		return nil, err
	}
	// сообщение необязательно в старых записях
	if !r.eof() {
		if rec.Message, err = r.string("message", MaxMessageLen); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func encodeSigning(w *writer, r *AgreementSigning) error {
	w.hash(r.ProposalID)
	return nil
}

func decodeSigning(r *reader) (*AgreementSigning, error) {
	id, err := r.hash("proposal id")
	if err != nil {
		return nil, err
	}
	return &AgreementSigning{ProposalID: id}, nil
}

func encodeAgreementCreate(w *writer, r *AgreementCreate) error {
	if len(r.Name) > MaxAgreementNameLen {
		return cc.Malformed("agreement name longer than %d bytes", MaxAgreementNameLen)
	}
	w.vector(r.Creator)
	w.vector(r.Client)
	w.int64(r.Deposit)
	w.int64(r.Timelock)
	w.hash(r.DataHash)
	w.string(r.Name)
	return nil
}

func decodeAgreementCreate(r *reader) (*AgreementCreate, error) {
	var (
		rec AgreementCreate
		err error
	)
	if rec.Creator, err = r.vector("creator", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.Client, err = r.vector("client", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.Deposit, err = r.int64("deposit"); err != nil {
		return nil, err
	}
	if rec.Timelock, err = r.int64("timelock"); err != nil {
		return nil, err
	}
	if rec.DataHash, err = r.hash("data hash"); err != nil {
		return nil, err
	}
	if rec.Name, err = r.string("name", MaxAgreementNameLen); err != nil {
		return nil, err
	}
	return &rec, nil
}

func encodeAgreementUpdate(w *writer, r *AgreementUpdate) error {
	if r.UpdateType != UpdateContract && r.UpdateType != UpdateTerminate {
		return cc.Malformed("unknown update type %q", r.UpdateType)
	}
	w.vector(r.Confirmer)
	w.hash(r.LastUpdateID)
	w.hash(r.ProposalID)
	w.uint8(r.UpdateType)
	return nil
}

func decodeAgreementUpdate(r *reader) (*AgreementUpdate, error) {
	var (
		rec AgreementUpdate
		err error
	)
	if rec.Confirmer, err = r.vector("confirmer", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.LastUpdateID, err = r.hash("last update id"); err != nil {
		return nil, err
	}
	if rec.ProposalID, err = r.hash("update proposal id"); err != nil {
		return nil, err
	}
	if rec.UpdateType, err = r.uint8("update type"); err != nil {
		return nil, err
	}
	if rec.UpdateType != UpdateContract && rec.UpdateType != UpdateTerminate {
		return nil, cc.Malformed("unknown update type %q", rec.UpdateType)
	}
	return &rec, nil
}

func encodeDispute(w *writer, r *AgreementDispute) error {
	w.hash(r.AgreementID)
	w.vector(r.Initiator)
	w.hash(r.LastDisputeID)
	w.uint8(r.DisputeType)
	w.hash(r.DisputeHash)
	return nil
}

func decodeDispute(r *reader) (*AgreementDispute, error) {
	var (
		rec AgreementDispute
		err error
	)
	if rec.AgreementID, err = r.hash("agreement id"); err != nil {
		return nil, err
	}
	if rec.Initiator, err = r.vector("initiator", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.LastDisputeID, err = r.hash("last dispute id"); err != nil {
		return nil, err
	}
	if rec.DisputeType, err = r.uint8("dispute type"); err != nil {
		return nil, err
	}
	if rec.DisputeHash, err = r.hash("dispute hash"); err != nil {
		return nil, err
	}
	return &rec, nil
}

func encodeResolve(w *writer, r *AgreementResolve) error {
	if len(r.Message) > MaxMessageLen {
		return cc.Malformed("message longer than %d bytes", MaxMessageLen)
	}
	w.hash(r.DisputeID)
	w.uint8(r.Verdict)
	w.vector(r.Rewarded)
	w.string(r.Message)
	return nil
}

func decodeResolve(r *reader) (*AgreementResolve, error) {
	var (
		rec AgreementResolve
		err error
	)
	if rec.DisputeID, err = r.hash("dispute id"); err != nil {
		return nil, err
	}
	if rec.Verdict, err = r.uint8("verdict"); err != nil {
		return nil, err
	}
	if rec.Rewarded, err = r.vector("rewarded pubkey", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.Message, err = r.string("message", MaxMessageLen); err != nil {
		return nil, err
	}
	return &rec, nil
}
