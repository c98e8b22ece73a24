package cc

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord       = errors.New("malformed record")
	ErrUnknownType           = errors.New("unknown record type")
	ErrStructuralViolation   = errors.New("structural violation")
	ErrLinkageViolation      = errors.New("linkage violation")
	ErrBusinessRuleViolation = errors.New("business rule violation")
	ErrNotFound              = errors.New("transaction not found")
)

// NoVout означает, что нарушение не привязано к конкретному выходу.
const NoVout = -1

// DomainError - нарушение с контекстом, достаточным для разбора оператором.
type DomainError struct {
	Err     error
	Message string
	TxID    string
	Vout    int
}

func (e *DomainError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	} else {
		msg = e.Err.Error() + ": " + msg
	}
	switch {
	case e.TxID != "" && e.Vout >= 0:
		return fmt.Sprintf("%s (tx %s, vout %d)", msg, e.TxID, e.Vout)
	case e.TxID != "":
		return fmt.Sprintf("%s (tx %s)", msg, e.TxID)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Kind возвращает имя категории ошибки для API и логов.
func (e *DomainError) Kind() string {
	return KindOf(e.Err)
}

func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrMalformedRecord):
		return "MalformedRecord"
	case errors.Is(err, ErrUnknownType):
		return "UnknownType"
	case errors.Is(err, ErrStructuralViolation):
		return "StructuralViolation"
	case errors.Is(err, ErrLinkageViolation):
		return "LinkageViolation"
	case errors.Is(err, ErrBusinessRuleViolation):
		return "BusinessRuleViolation"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	}
	return "Internal"
}

func newError(kind error, txid string, vout int, format string, args ...any) *DomainError {
	return &DomainError{
		Err:     kind,
		Message: fmt.Sprintf(format, args...),
		TxID:    txid,
		Vout:    vout,
	}
}

func Malformed(format string, args ...any) *DomainError {
	return newError(ErrMalformedRecord, "", NoVout, format, args...)
}

func UnknownType(format string, args ...any) *DomainError {
	return newError(ErrUnknownType, "", NoVout, format, args...)
}

func Structural(txid string, vout int, format string, args ...any) *DomainError {
	return newError(ErrStructuralViolation, txid, vout, format, args...)
}

func Linkage(txid string, format string, args ...any) *DomainError {
	return newError(ErrLinkageViolation, txid, NoVout, format, args...)
}

func BusinessRule(txid string, format string, args ...any) *DomainError {
	return newError(ErrBusinessRuleViolation, txid, NoVout, format, args...)
}

func NotFound(txid string) *DomainError {
	return &DomainError{Err: ErrNotFound, TxID: txid, Vout: NoVout}
}

// WithTx дополняет ошибку идентификатором транзакции, если его еще нет.
func WithTx(err error, txid string) error {
	var de *DomainError
	if errors.As(err, &de) && de.TxID == "" {
		cp := *de
		cp.TxID = txid
		return &cp
	}
	return err
}
