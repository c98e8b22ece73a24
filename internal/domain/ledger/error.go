package ledger

import "errors"

var (
	ErrNotFound = errors.New("transaction not found")
	ErrUnspent  = errors.New("output is unspent")
	ErrConflict = errors.New("output already spent by another transaction")
)
