package application_test

import (
	"testing"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	e := newUninitializedTestEngine(t)

	valid := func() *application.Config {
		return &application.Config{
			RepoManager:          e.repoManager,
			Clock:                e.slotClock,
			CctpTransmitter:      e.transmitter,
			MessagePublisher:     e.publisher,
			LocalChain:           localChain,
			UpgradeAuthority:     e.owner,
			EngineProgramID:      e.engineProgramID,
			TokenRouterProgramID: e.tokenRouterProgramID,
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name     string
		mutate   func(c *application.Config)
		expected int
	}{
		{
			name:     "missing repo manager",
			mutate:   func(c *application.Config) { c.RepoManager = nil },
			expected: 1,
		},
		{
			name: "missing transports",
			mutate: func(c *application.Config) {
				c.CctpTransmitter = nil
				c.MessagePublisher = nil
			},
			expected: 2,
		},
		{
			name: "missing identities",
			mutate: func(c *application.Config) {
				c.LocalChain = 0
				c.UpgradeAuthority = [32]byte{}
				c.EngineProgramID = [32]byte{}
				c.TokenRouterProgramID = [32]byte{}
			},
			expected: 4,
		},
		{
			name:     "negative cache size",
			mutate:   func(c *application.Config) { c.ConfigCacheSize = -1 },
			expected: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			merr, ok := err.(*multierror.Error)
			require.True(t, ok)
			require.Len(t, merr.Errors, tt.expected)
		})
	}
}
