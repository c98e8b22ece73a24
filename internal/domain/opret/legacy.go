package opret

import "strings"

// Старые кодировщики rogue и assets дописывали свои данные после перевода
// одним вектором, без id расширения.
const (
	legacyRogueMarker = 0x11
	legacyRogueFuncs  = "RHQKG"
	legacyAssetsFuncs = "sbSBxo"
)

// decodeLegacyTransferTail пытается разобрать перевод в формате до появления
// id расширений. Хвост читается как один вектор; если его первые два байта
// похожи на данные rogue или assets, id расширения восстанавливается.
// Вызывается только после неудачи строгого разбора.
func decodeLegacyTransferTail(b []byte, assetsEval uint8) (*TokenTransfer, bool) {
	r := newReader(b)
	r.off = headerLen
	rec, err := decodeTransferHead(r)
	if err != nil || r.eof() {
		return nil, false
	}
	blob, err := r.vector("legacy data", 0)
	if err != nil || !r.eof() || len(blob) < 2 {
		return nil, false
	}

	var id ExtensionID
	switch {
	case blob[0] == legacyRogueMarker && strings.IndexByte(legacyRogueFuncs, blob[1]) >= 0:
		id = ExtRogueGameData
	case blob[0] == assetsEval && strings.IndexByte(legacyAssetsFuncs, blob[1]) >= 0:
		id = ExtAssetsData
	default:
		return nil, false
	}
	rec.Extensions = []Extension{{ID: id, Blob: blob}}
	return rec, true
}
