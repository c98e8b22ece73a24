package ledger

import (
	"bytes"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // hash160 требует именно RIPEMD-160
)

const (
	// NormalPrefix - версия base58check для обычных адресов ('R...').
	NormalPrefix byte = 60
	// CCPrefix - версия base58check для CC-адресов ('C...').
	CCPrefix byte = 28
)

// Addresser выводит детерминированные адреса из публичных ключей.
type Addresser interface {
	NormalAddress(pubkey []byte) string
	CCAddress(evalCode uint8, pubkey []byte) string
	CC1of2Address(evalCode uint8, pk1, pk2 []byte) string
	UnspendableAddress(evalCode uint8) string
}

// AddressBook - реализация Addresser по умолчанию.
type AddressBook struct {
	normalPrefix byte
	ccPrefix     byte
}

func NewAddressBook() *AddressBook {
	return &AddressBook{
		normalPrefix: NormalPrefix,
		ccPrefix:     CCPrefix,
	}
}

func (a *AddressBook) NormalAddress(pubkey []byte) string {
	return base58.CheckEncode(hash160(pubkey), a.normalPrefix)
}

// CCAddress - адрес условия 1of1 под eval-кодом модуля.
func (a *AddressBook) CCAddress(evalCode uint8, pubkey []byte) string {
	buf := make([]byte, 0, 2+len(pubkey))
	buf = append(buf, evalCode, 1)
	buf = append(buf, pubkey...)
	return base58.CheckEncode(hash160(buf), a.ccPrefix)
}

// CC1of2Address не зависит от порядка ключей.
func (a *AddressBook) CC1of2Address(evalCode uint8, pk1, pk2 []byte) string {
	if bytes.Compare(pk1, pk2) > 0 {
		pk1, pk2 = pk2, pk1
	}
	buf := make([]byte, 0, 2+len(pk1)+len(pk2))
	buf = append(buf, evalCode, 2)
	buf = append(buf, pk1...)
	buf = append(buf, pk2...)
	return base58.CheckEncode(hash160(buf), a.ccPrefix)
}

// UnspendableAddress - глобальный адрес модуля, куда отправляются маркеры.
func (a *AddressBook) UnspendableAddress(evalCode uint8) string {
	return a.CCAddress(evalCode, UnspendablePubKey(evalCode))
}

// UnspendablePubKey - общеизвестный ключ модуля, приватная часть которого публична.
func UnspendablePubKey(evalCode uint8) []byte {
	sum := sha256.Sum256([]byte{'c', 'c', evalCode})
	return append([]byte{0x02}, sum[:]...)
}

func hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	_, _ = h.Write(sha[:])
	return h.Sum(nil)
}
