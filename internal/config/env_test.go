package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	require.NoError(t, Init())

	c := Get()
	assert.Equal(t, "8080", GetPort())
	assert.Equal(t, "https://testnet-rpc.monad.xyz", GetRPCURL())
	assert.Equal(t, int64(10143), c.ChainID)
	assert.Equal(t, "0xf662457b7902f302aed42825878c76f8e82a2bbe", c.ContractAddress)
	assert.Equal(t, "https://testnet.monadexplorer.com", c.ExplorerURL)
	assert.Equal(t, 18, c.TokenDecimals)
	assert.False(t, c.EnforceChecksum)
	assert.Equal(t, 5*time.Minute, c.ConfirmTimeout)
	assert.Equal(t, 2*time.Second, c.ReceiptPollInterval)
	assert.Equal(t, 10*time.Second, GetSubmitCooldown())
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, GetKeyFilePath())
}

func TestInit_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KEY_FILE_PATH", "/tmp/signer.key")
	t.Setenv("ENFORCE_CHECKSUM", "true")
	t.Setenv("CONFIRM_TIMEOUT", "30s")
	t.Setenv("TOKEN_DECIMALS", "6")

	require.NoError(t, Init())
	assert.Equal(t, "9090", GetPort())
	assert.Equal(t, "/tmp/signer.key", GetKeyFilePath())
	assert.True(t, Get().EnforceChecksum)
	assert.Equal(t, 30*time.Second, Get().ConfirmTimeout)
	assert.Equal(t, 6, Get().TokenDecimals)
}

func TestInit_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "chain id", key: "CHAIN_ID", value: "0"},
		{name: "contract", key: "CONTRACT_ADDRESS", value: "0x1234"},
		{name: "decimals", key: "TOKEN_DECIMALS", value: "78"},
		{name: "poll interval", key: "RECEIPT_POLL_INTERVAL", value: "0s"},
		{name: "not a duration", key: "SUBMIT_COOLDOWN", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.Error(t, Init())
		})
	}
}

func TestGetPasswordBytes(t *testing.T) {
	passwordBytes = nil
	_, err := GetPasswordBytes()
	assert.Error(t, err)

	passwordBytes = []byte("secret")
	t.Cleanup(func() { passwordBytes = nil })

	got, err := GetPasswordBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), got)

	clear(got)
	assert.Equal(t, []byte("secret"), passwordBytes)
}
