package cc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "only kind",
			err:      NotFound(""),
			expected: "transaction not found",
		},
		{
			name:     "with tx and vout",
			err:      Structural("ab", 3, "wrong destination"),
			expected: "structural violation: wrong destination (tx ab, vout 3)",
		},
		{
			name:     "with tx only",
			err:      Linkage("cd", "cycle at %s", "ef"),
			expected: "linkage violation: cycle at ef (tx cd)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	wrapped := fmt.Errorf("validate: %w", BusinessRule("aa", "role collision"))

	assert.True(t, errors.Is(wrapped, ErrBusinessRuleViolation))
	assert.False(t, errors.Is(wrapped, ErrStructuralViolation))
	assert.Equal(t, "BusinessRuleViolation", KindOf(wrapped))
	assert.Equal(t, "Internal", KindOf(errors.New("boom")))
}

func TestWithTx(t *testing.T) {
	err := WithTx(Malformed("short payload"), "beef")

	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "beef", de.TxID)

	// уже заполненный идентификатор не перетирается
	err = WithTx(Structural("aaaa", 0, "x"), "beef")
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "aaaa", de.TxID)
}

func TestModules(t *testing.T) {
	m := DefaultModules()
	assert.NoError(t, m.Validate())

	mod, ok := m.Lookup(DefaultEvalTokens)
	assert.True(t, ok)
	assert.Equal(t, ModuleTokens, mod)

	_, ok = m.Lookup(0x01)
	assert.False(t, ok)

	m.Agreements = m.Tokens
	assert.Error(t, m.Validate())
}
