package redis

import (
	"context"
	"strconv"
	"testing"

	"dunning-dashboard/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configFor(t *testing.T, s *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(s.Port())
	require.NoError(t, err)
	return config.RedisConfig{Enabled: true, Host: s.Host(), Port: port}
}

func TestNewClient_Connects(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), configFor(t, s), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	checker := NewHealthCheck(client)
	assert.Equal(t, "redis", checker.Name())
	assert.NoError(t, checker.Ping(context.Background()))
}

func TestNewClient_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	cfg := configFor(t, s)
	s.Close()

	client, err := NewClient(context.Background(), cfg, zerolog.Nop())
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "pinging redis")
}
