package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statutelabs/billchat/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_UnconfiguredService(t *testing.T) {
	chatService = nil

	err := runAsk(askCmd, []string{"What is VAT?"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	chat, _, _ := setupTestServices(t)
	chat.answer = domain.Answer{
		Response: "The threshold is N800,000.",
		Sources: []domain.Source{
			{Document: "BillA.pdf", Type: "pdf", Score: 0.91, Excerpt: "income tax exemption threshold"},
		},
		Retrieved: true,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "What is the income tax exemption?"})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "The threshold is N800,000.")
	assert.Contains(t, out, "[1] BillA.pdf (0.91)")
	assert.Contains(t, out, "income tax exemption threshold")
	require.Len(t, chat.messages, 1)
	assert.Equal(t, "What is the income tax exemption?", chat.messages[0])
}

func TestAskCmd_GeneratesSessionWhenUnset(t *testing.T) {
	chat, _, _ := setupTestServices(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "What is VAT?"})

	require.NoError(t, rootCmd.Execute())
	require.Len(t, chat.sessions, 1)
	assert.NotEmpty(t, chat.sessions[0])
}

func TestAskCmd_SessionFlag(t *testing.T) {
	chat, _, _ := setupTestServices(t)
	defer func() { askSession = "" }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--session", "follow-up-1", "And for companies?"})

	require.NoError(t, rootCmd.Execute())
	require.Len(t, chat.sessions, 1)
	assert.Equal(t, "follow-up-1", chat.sessions[0])
}
