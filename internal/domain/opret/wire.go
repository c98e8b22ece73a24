package opret

import (
	"bytes"
	"encoding/binary"
	"math"

	"antaracc/internal/domain/cc"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// maxVectorSize совпадает с MAX_SIZE потоковой сериализации узла.
const maxVectorSize = 0x02000000

// reader читает примитивы потоковой сериализации. Все методы возвращают
// типизированную ошибку вместо паники при усеченных данных.
type reader struct {
	buf []byte
	off int
}

func newReader(b []byte) *reader {
	return &reader{buf: b}
}

func (r *reader) eof() bool {
	return r.off >= len(r.buf)
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n int, what string) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, cc.Malformed("truncated %s at offset %d", what, r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint8(what string) (uint8, error) {
	b, err := r.take(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) int32(what string) (int32, error) {
	b, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) int64(what string) (int64, error) {
	b, err := r.take(8, what)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (r *reader) float64(what string) (float64, error) {
	b, err := r.take(8, what)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (r *reader) hash(what string) (chainhash.Hash, error) {
	var h chainhash.Hash
	b, err := r.take(chainhash.HashSize, what)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func (r *reader) compactSize(what string) (uint64, error) {
	first, err := r.uint8(what)
	if err != nil {
		return 0, err
	}
	var (
		n   uint64
		lower uint64
	)
	switch first {
	case 0xfd:
		b, err := r.take(2, what)
		if err != nil {
			return 0, err
		}
		n, lower = uint64(binary.LittleEndian.Uint16(b)), 0xfd
	case 0xfe:
		b, err := r.take(4, what)
		if err != nil {
			return 0, err
		}
		n, lower = uint64(binary.LittleEndian.Uint32(b)), 0x10000
	case 0xff:
		b, err := r.take(8, what)
		if err != nil {
			return 0, err
		}
		n, lower = binary.LittleEndian.Uint64(b), 0x100000000
	default:
		return uint64(first), nil
	}
	if n < lower {
		return 0, cc.Malformed("non-canonical compact size for %s", what)
	}
	return n, nil
}

// vector читает вектор с длиной CompactSize. Пустой вектор возвращается как nil.
func (r *reader) vector(what string, max int) ([]byte, error) {
	n, err := r.compactSize(what)
	if err != nil {
		return nil, err
	}
	if n > maxVectorSize || (max > 0 && n > uint64(max)) {
		return nil, cc.Malformed("%s too long: %d bytes", what, n)
	}
	b, err := r.take(int(n), what)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (r *reader) string(what string, max int) (string, error) {
	b, err := r.vector(what, max)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writer собирает полезную нагрузку в порядке полей записи.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) uint8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *writer) int32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *writer) int64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *writer) float64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *writer) hash(h chainhash.Hash) {
	w.buf.Write(h[:])
}

func (w *writer) compactSize(n uint64) {
	switch {
	case n < 0xfd:
		w.buf.WriteByte(byte(n))
	case n <= 0xffff:
		var b [3]byte
		b[0] = 0xfd
		binary.LittleEndian.PutUint16(b[1:], uint16(n))
		w.buf.Write(b[:])
	case n <= 0xffffffff:
		var b [5]byte
		b[0] = 0xfe
		binary.LittleEndian.PutUint32(b[1:], uint32(n))
		w.buf.Write(b[:])
	default:
		var b [9]byte
		b[0] = 0xff
		binary.LittleEndian.PutUint64(b[1:], n)
		w.buf.Write(b[:])
	}
}

func (w *writer) vector(b []byte) {
	w.compactSize(uint64(len(b)))
	w.buf.Write(b)
}

func (w *writer) string(s string) {
	w.vector([]byte(s))
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

// ReverseID переворачивает порядок байт идентификатора.
func ReverseID(id chainhash.Hash) chainhash.Hash {
	var out chainhash.Hash
	for i := 0; i < chainhash.HashSize; i++ {
		out[i] = id[chainhash.HashSize-1-i]
	}
	return out
}
