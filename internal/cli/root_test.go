package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "normverify", cmd.Use)
	assert.Contains(t, cmd.Long, "error.txt")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"verify", "verify-all", "history", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestVerifyCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	verifyCmd, _, err := cmd.Find([]string{"verify"})
	require.NoError(t, err)

	for name, def := range map[string]string{
		"fixtures":        "fixtures",
		"out-root":        "",
		"case":            "",
		"tool":            "proof-first-normalizer",
		"compare-goldens": "false",
	} {
		flag := verifyCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestVerifyAllCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	allCmd, _, err := cmd.Find([]string{"verify-all"})
	require.NoError(t, err)

	for name, def := range map[string]string{
		"parallel": "0",
		"ledger":   "",
		"filter":   "",
	} {
		flag := allCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
	assert.Nil(t, allCmd.Flags().Lookup("case"))
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	limitFlag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "20", limitFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := runCLI(t, "verify", "--format", "yaml", "--out-root", "out", "--case", "a")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := runCLI(t, "compile")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigLoadError(t *testing.T) {
	chdirTree(t)
	require.NoError(t, os.WriteFile("normverify.yaml", []byte("out_rot: out\n"), 0644))

	_, _, err := runCLI(t, "verify", "--config", "normverify.yaml", "--case", "a")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestConfigMissingFile(t *testing.T) {
	chdirTree(t)

	_, _, err := runCLI(t, "verify-all", "--config", "absent.toml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
