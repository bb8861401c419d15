package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driving"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest", ingestCmd.Use)
}

func TestIngestCmd_HasFlags(t *testing.T) {
	require.NotNil(t, ingestCmd.Flags().Lookup("reset"))
	watch := ingestCmd.Flags().Lookup("watch")
	require.NotNil(t, watch)
	assert.Equal(t, "w", watch.Shorthand)
}

func TestIngestCmd_UnconfiguredService(t *testing.T) {
	ingestService = nil

	err := runIngest(ingestCmd, nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIngestCmd_ReportsStats(t *testing.T) {
	_, ingest, _ := setupTestServices(t)
	ingest.stats = driving.IngestStats{Documents: 3, Chunks: 42, Skipped: 1}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Ingested 3 documents (42 chunks, 1 skipped)")
}

func TestIngestCmd_ResetFlag(t *testing.T) {
	_, ingest, _ := setupTestServices(t)
	defer func() { ingestReset = false }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--reset"})

	require.NoError(t, rootCmd.Execute())
	require.Len(t, ingest.opts, 1)
	assert.True(t, ingest.opts[0].Reset)
}

func TestIngestCmd_FailurePropagates(t *testing.T) {
	_, ingest, _ := setupTestServices(t)
	ingest.err = errors.New("no documents found")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documents found")
}
