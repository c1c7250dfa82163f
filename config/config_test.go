package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPool = "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
nodes:
  - rpc: https://api.mainnet-beta.solana.com
listen: ":9000"
pools:
  - address: `+testPool+`
    kind: tokenswap
constraints:
  swap:
    curve_types: [constant_product, stable]
    trade_fee_numerator: 25
    trade_fee_denominator: 10000
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, DefaultRefreshSeconds, cfg.RefreshSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.MySQL.Enabled)
	require.Len(t, cfg.Pools, 1)
	assert.Equal(t, testPool, cfg.Pools[0].PublicKey().String())

	swap, err := cfg.SwapConstraints()
	require.NoError(t, err)
	require.NotNil(t, swap)
	assert.Equal(t, []tokenswap.CurveType{tokenswap.ConstantProduct, tokenswap.Stable}, swap.ValidCurveTypes)
	assert.Equal(t, uint64(25), swap.Fees.TradeFeeNumerator)
	assert.True(t, swap.OwnerKey.IsZero())

	amm, err := cfg.AmmConstraints()
	require.NoError(t, err)
	assert.Nil(t, amm)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, `
nodes:
  - rpc: http://127.0.0.1:8899
`)
	t.Setenv("TOKENSWAP_LISTEN", ":7000")
	t.Setenv("TOKENSWAP_LOG_LEVEL", "debug")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"no nodes":  "listen: \":1\"\n",
		"bad rpc":   "nodes:\n  - rpc: ws://x\n",
		"bad kind":  "nodes:\n  - rpc: http://x\npools:\n  - address: " + testPool + "\n    kind: orca\n",
		"bad pool":  "nodes:\n  - rpc: http://x\npools:\n  - address: nope\n    kind: tokenswap\n",
		"bad curve": "nodes:\n  - rpc: http://x\nconstraints:\n  amm:\n    curve_types: [linear]\n",
		"mysql":     "nodes:\n  - rpc: http://x\nmysql:\n  enabled: true\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	c := MySQLConfig{DBUrl: "127.0.0.1:3306", Scheme: "amm", User: "root", Passwd: "pw"}
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/amm?charset=utf8mb4&parseTime=True&loc=Local", c.DSN())
}
