package config

import (
	"testing"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, "localhost:8080", cfg.Server.RunAddress)
	assert.Equal(t, chain.DefaultCeiling, cfg.Chain.WalkCeiling)
	assert.Equal(t, cc.DefaultModules(), cfg.Chain.Modules)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/ledger.db")
	t.Setenv("CHAIN_WALK_CEILING", "64")
	t.Setenv("EVAL_TOKENS", "0xf5")
	t.Setenv("EVAL_AGREEMENTS", "41")
	t.Setenv("EVAL_TOKENTAGS", "0x30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/ledger.db", cfg.DB.SQLitePath)
	assert.Equal(t, 64, cfg.Chain.WalkCeiling)
	assert.Equal(t, uint8(0xf5), cfg.Chain.Modules.Tokens)
	assert.Equal(t, uint8(41), cfg.Chain.Modules.Agreements)
	assert.Equal(t, uint8(0x30), cfg.Chain.Modules.TokenTags)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mongo"}},
		{name: "postgres without uri", env: map[string]string{"DB_DRIVER": "postgres"}},
		{name: "bad eval code", env: map[string]string{"EVAL_TOKENS": "0x1ff"}},
		{name: "shared eval code", env: map[string]string{"EVAL_TOKENS": "0x28"}},
		{name: "zero ceiling", env: map[string]string{"CHAIN_WALK_CEILING": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
