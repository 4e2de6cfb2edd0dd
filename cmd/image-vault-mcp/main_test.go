package main

import (
	"testing"

	"github.com/ironsheep/image-vault-mcp/internal/config"
)

func TestRun_InformationalFlags(t *testing.T) {
	for _, args := range [][]string{{"--version"}, {"-v"}, {"--help"}, {"-h"}} {
		if err := run(args); err != nil {
			t.Errorf("run(%v): %v", args, err)
		}
	}
}

func TestRun_RejectsBadInvocation(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvMaxMemoryMB, "")
	t.Setenv(config.EnvWorkers, "")
	t.Setenv(config.EnvLogLevel, "")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--frobnicate"}},
		{"positional argument", []string{"serve"}},
		{"negative budget", []string{"--max-memory-mb", "-1"}},
		{"negative workers", []string{"--workers=-2"}},
		{"bad log level", []string{"--log-level", "loud"}},
		{"missing config file", []string{"--config", "/nonexistent/image-vault.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args); err == nil {
				t.Errorf("run(%v) should fail", tt.args)
			}
		})
	}
}
