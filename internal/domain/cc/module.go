package cc

import "fmt"

// Module - семейство CC-контрактов, которому принадлежит запись.
type Module string

const (
	ModuleTokens     Module = "tokens"
	ModuleAssets     Module = "assets"
	ModuleRogue      Module = "rogue"
	ModuleAgreements Module = "agreements"
	ModuleTokenTags  Module = "tokentags"
)

// Значения eval-кодов по умолчанию.
const (
	DefaultEvalTokens     uint8 = 0xf2
	DefaultEvalAssets     uint8 = 0xe3
	DefaultEvalRogue      uint8 = 0x11
	DefaultEvalAgreements uint8 = 0x28
	DefaultEvalTokenTags  uint8 = 0x29
)

// Константы модулей (в сатоши).
const (
	MarkerValue    int64 = 10000
	ResponseValue  int64 = 10000
	BatonValue     int64 = 10000
	MinMediatorFee int64 = 10000
	MinDeposit     int64 = 10000
	DefaultTxFee   int64 = 10000
)

// Modules хранит eval-коды, с которыми работает процесс.
// Заполняется один раз при старте и дальше передается по значению.
type Modules struct {
	Tokens     uint8
	Assets     uint8
	Rogue      uint8
	Agreements uint8
	TokenTags  uint8
}

func DefaultModules() Modules {
	return Modules{
		Tokens:     DefaultEvalTokens,
		Assets:     DefaultEvalAssets,
		Rogue:      DefaultEvalRogue,
		Agreements: DefaultEvalAgreements,
		TokenTags:  DefaultEvalTokenTags,
	}
}

// EvalCode возвращает eval-код модуля.
func (m Modules) EvalCode(module Module) (uint8, bool) {
	switch module {
	case ModuleTokens:
		return m.Tokens, true
	case ModuleAssets:
		return m.Assets, true
	case ModuleRogue:
		return m.Rogue, true
	case ModuleAgreements:
		return m.Agreements, true
	case ModuleTokenTags:
		return m.TokenTags, true
	}
	return 0, false
}

// Lookup находит модуль по eval-коду.
func (m Modules) Lookup(evalCode uint8) (Module, bool) {
	switch evalCode {
	case m.Tokens:
		return ModuleTokens, true
	case m.Agreements:
		return ModuleAgreements, true
	case m.Assets:
		return ModuleAssets, true
	case m.Rogue:
		return ModuleRogue, true
	case m.TokenTags:
		return ModuleTokenTags, true
	}
	return "", false
}

// Validate проверяет, что eval-коды не пересекаются и не равны нулю.
func (m Modules) Validate() error {
	seen := make(map[uint8]Module, 5)
	for _, mod := range []Module{ModuleTokens, ModuleAssets, ModuleRogue, ModuleAgreements, ModuleTokenTags} {
		code, _ := m.EvalCode(mod)
		if code == 0 {
			return fmt.Errorf("eval code for %s is not set", mod)
		}
		if other, ok := seen[code]; ok {
			return fmt.Errorf("eval code 0x%02x is shared by %s and %s", code, other, mod)
		}
		seen[code] = mod
	}
	return nil
}
