package opret

import (
	"antaracc/internal/domain/cc"
)

func encodeTokenCreate(w *writer, r *TokenCreate) error {
	if len(r.Name) > MaxTokenNameLen {
		return cc.Malformed("token name longer than %d bytes", MaxTokenNameLen)
	}
	if len(r.Description) > MaxTokenDescriptionLen {
		return cc.Malformed("token description longer than %d bytes", MaxTokenDescriptionLen)
	}
	if len(r.TokenType) > MaxTokenTypeLen {
		return cc.Malformed("token type longer than %d bytes", MaxTokenTypeLen)
	}
	w.vector(r.Origin)
	w.string(r.Name)
	w.string(r.Description)
	w.float64(r.OwnerPerc)
	w.string(r.TokenType)
	w.hash(r.RefTokenID)
	w.int64(r.ExpiryTimeSec)
	return encodeExtensions(w, r.Extensions)
}

func decodeTokenCreate(r *reader) (*TokenCreate, error) {
	var (
		rec TokenCreate
		err error
	)
	if rec.Origin, err = r.vector("origin pubkey", MaxPubKeyLen); err != nil {
		return nil, err
	}
	if rec.Name, err = r.string("name", MaxTokenNameLen); err != nil {
		return nil, err
	}
	if rec.Description, err = r.string("description", MaxTokenDescriptionLen); err != nil {
		return nil, err
	}
	if rec.OwnerPerc, err = r.float64("owner percentage"); err != nil {
		return nil, err
	}
	if rec.TokenType, err = r.string("token type", MaxTokenTypeLen); err != nil {
		return nil, err
	}
	if rec.RefTokenID, err = r.hash("reference token id"); err != nil {
		return nil, err
	}
	if rec.ExpiryTimeSec, err = r.int64("expiry"); err != nil {
		return nil, err
	}
	if rec.Extensions, err = decodeExtensions(r); err != nil {
		return nil, err
	}
	return &rec, nil
}

func encodeTokenTransfer(w *writer, r *TokenTransfer) error {
	if len(r.Destinations) > 2 {
		return cc.Malformed("transfer supports at most 2 destination pubkeys, got %d", len(r.Destinations))
	}
	w.hash(ReverseID(r.TokenID))
	w.uint8(uint8(len(r.Destinations)))
	for i, pk := range r.Destinations {
		if len(pk) == 0 {
			return cc.Malformed("empty destination pubkey %d", i)
		}
		w.vector(pk)
	}
	return encodeExtensions(w, r.Extensions)
}

// decodeTransferHead читает общую часть перевода: токен и получателей.
func decodeTransferHead(r *reader) (*TokenTransfer, error) {
	var rec TokenTransfer
	wireID, err := r.hash("token id")
	if err != nil {
		return nil, err
	}
	rec.TokenID = ReverseID(wireID)

	count, err := r.uint8("destination count")
	if err != nil {
		return nil, err
	}
	if count > 2 {
		return nil, cc.Malformed("destination count %d out of range 0..2", count)
	}
	for i := 0; i < int(count); i++ {
		pk, err := r.vector("destination pubkey", MaxPubKeyLen)
		if err != nil {
			return nil, err
		}
		if len(pk) == 0 {
			return nil, cc.Malformed("empty destination pubkey %d", i)
		}
		rec.Destinations = append(rec.Destinations, pk)
	}
	return &rec, nil
}

func decodeTokenTransferStrict(b []byte) (*TokenTransfer, error) {
	r := newReader(b)
	r.off = headerLen
	rec, err := decodeTransferHead(r)
	if err != nil {
		return nil, err
	}
	if rec.Extensions, err = decodeExtensions(r); err != nil {
		return nil, err
	}
	return rec, nil
}

func encodeTokenUpdate(w *writer, r *TokenUpdate) error {
	if len(r.CurrencyCode) > MaxCurrencyCodeLen {
		return cc.Malformed("currency code longer than %d bytes", MaxCurrencyCodeLen)
	}
	w.hash(ReverseID(r.TokenID))
	w.hash(r.PrevUpdateID)
	w.hash(r.DataHash)
	w.int64(r.Value)
	w.string(r.CurrencyCode)
	w.int32(r.LicenseType)
	return nil
}

func decodeTokenUpdate(r *reader) (*TokenUpdate, error) {
	var rec TokenUpdate
	wireID, err := r.hash("token id")
	if err != nil {
		return nil, err
	}
	rec.TokenID = ReverseID(wireID)
	if rec.PrevUpdateID, err = r.hash("previous update id"); err != nil {
		return nil, err
	}
	if rec.DataHash, err = r.hash("data hash"); err != nil {
		return nil, err
	}
	if rec.Value, err = r.int64("value"); err != nil {
		return nil, err
	}
	if rec.CurrencyCode, err = r.string("currency code", MaxCurrencyCodeLen); err != nil {
		return nil, err
	}
	if rec.LicenseType, err = r.int32("license type"); err != nil {
		return nil, err
	}
	return &rec, nil
}

func encodeExtensions(w *writer, exts []Extension) error {
	for i, e := range exts {
		if e.ID == 0 {
			return cc.Malformed("extension %d has zero id", i)
		}
		w.uint8(uint8(e.ID))
		w.vector(e.Blob)
	}
	return nil
}

// decodeExtensions читает пары (id, blob) до конца буфера.
// Висящий id без данных считается ошибкой формата.
func decodeExtensions(r *reader) ([]Extension, error) {
	var exts []Extension
	for !r.eof() {
		id, err := r.uint8("extension id")
		if err != nil {
			return nil, err
		}
		if id == 0 {
			return nil, cc.Malformed("zero extension id at offset %d", r.off-1)
		}
		if r.eof() {
			return nil, cc.Malformed("extension 0x%02x has no data", id)
		}
		blob, err := r.vector("extension blob", 0)
		if err != nil {
			return nil, err
		}
		exts = append(exts, Extension{ID: ExtensionID(id), Blob: blob})
	}
	return exts, nil
}
