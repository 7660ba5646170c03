package config

import (
	"testing"

	"flightsurety/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("OWNER_PRINCIPAL", " 0xOWNER ")
	t.Setenv("APP_ADDR", "")
	t.Setenv("BOOTSTRAP_AIRLINE", "")
	t.Setenv("AUTH_CREDENTIALS", "")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, domain.Principal("0xowner"), env.OwnerPrincipal)
	assert.Equal(t, env.OwnerPrincipal, env.BootstrapAirline)
	assert.True(t, env.Params.PayoutMultiplier.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, 3, env.Params.OracleQuorum)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OWNER_PRINCIPAL", "0xowner")
	t.Setenv("BOOTSTRAP_AIRLINE", "0xair1")
	t.Setenv("AUTH_CREDENTIALS", "0xAIR1:$2a$10$abc, 0xpax:$2a$10$def")
	t.Setenv("SURETY_INSURANCE_CAP", "2.5")
	t.Setenv("SURETY_ORACLE_QUORUM", "5")
	t.Setenv("SURETY_SEED", "42")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, domain.Principal("0xair1"), env.BootstrapAirline)
	assert.Equal(t, "$2a$10$abc", env.AuthCredentials["0xair1"])
	assert.Equal(t, "$2a$10$def", env.AuthCredentials["0xpax"])
	assert.True(t, env.Params.InsuranceCap.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 5, env.Params.OracleQuorum)
	assert.Equal(t, uint64(42), env.Params.Seed)
}

func TestLoadEnvRejectsBadValues(t *testing.T) {
	t.Setenv("OWNER_PRINCIPAL", "")
	_, err := LoadEnv()
	require.Error(t, err)

	t.Setenv("OWNER_PRINCIPAL", "0xowner")
	t.Setenv("SURETY_ORACLE_QUORUM", "0")
	_, err = LoadEnv()
	require.Error(t, err)

	t.Setenv("SURETY_ORACLE_QUORUM", "")
	t.Setenv("AUTH_CREDENTIALS", "missing-hash")
	_, err = LoadEnv()
	require.Error(t, err)
}
