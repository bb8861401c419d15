package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statutelabs/billchat/internal/core/domain"
)

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
}

func TestChatCmd_UnconfiguredService(t *testing.T) {
	chatService = nil

	err := runChat(chatCmd, nil)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestChatCmd_AnswersUntilExit(t *testing.T) {
	chat, _, _ := setupTestServices(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("What is VAT?\nexit\n"))
	rootCmd.SetArgs([]string{"chat"})

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "canned response")
	require.Len(t, chat.messages, 1)
	assert.Equal(t, "What is VAT?", chat.messages[0])
}

func TestChatCmd_SingleSessionAcrossTurns(t *testing.T) {
	chat, _, _ := setupTestServices(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("first question\nsecond question\nquit\n"))
	rootCmd.SetArgs([]string{"chat"})

	require.NoError(t, rootCmd.Execute())
	require.Len(t, chat.sessions, 2)
	assert.Equal(t, chat.sessions[0], chat.sessions[1], "one REPL run is one session")
}

func TestChatCmd_ClearCommand(t *testing.T) {
	chat, _, _ := setupTestServices(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("clear\nexit\n"))
	rootCmd.SetArgs([]string{"chat"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Conversation cleared.")
	assert.Len(t, chat.clearedIDs, 1)
	assert.Empty(t, chat.messages, "clear is handled locally, not sent to the pipeline")
}

func TestChatCmd_SkipsBlankLines(t *testing.T) {
	chat, _, _ := setupTestServices(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("\n   \nexit\n"))
	rootCmd.SetArgs([]string{"chat"})

	require.NoError(t, rootCmd.Execute())
	assert.Empty(t, chat.messages)
}

func TestChatCmd_EOFEndsSession(t *testing.T) {
	chat, _, _ := setupTestServices(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("only question\n"))
	rootCmd.SetArgs([]string{"chat"})

	require.NoError(t, rootCmd.Execute())
	assert.Len(t, chat.messages, 1)
}
