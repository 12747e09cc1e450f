package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/config"
)

func TestGetOr_LogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	cfg := config.New()
	cfg.EnableEnv("")
	require.Equal(t, "debug", getOr(cfg, "LOG_LEVEL", "info"))

	t.Setenv("LOG_LEVEL", "")
	cfg = config.New()
	cfg.EnableEnv("")
	require.Equal(t, "info", getOr(cfg, "LOG_LEVEL", "info"))
}
