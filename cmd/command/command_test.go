package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codecrafters-io/command-supervisor/config"
	"github.com/codecrafters-io/command-supervisor/emitter"
	"github.com/codecrafters-io/command-supervisor/executable"
	"github.com/codecrafters-io/command-supervisor/logger"
	"github.com/codecrafters-io/command-supervisor/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromFlags(t *testing.T) {
	dir := t.TempDir()
	opts := &rootOptions{}
	root := newRootCmd(opts)

	execCmd, _, err := root.Find([]string{"exec"})
	require.NoError(t, err)
	require.NoError(t, execCmd.ParseFlags([]string{"--binary", "--pty", "--dir", dir, "--debug"}))

	cfg, err := opts.config(execCmd)
	require.NoError(t, err)

	assert.True(t, cfg.BinaryOutput)
	assert.False(t, cfg.Synchronous)
	assert.Equal(t, config.TransportPty, cfg.Transport)
	assert.Equal(t, dir, cfg.WorkingDirectory)
	assert.True(t, cfg.Debug)
}

func TestConfigFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "command.yml")
	require.NoError(t, os.WriteFile(path, []byte("binary_output: true\npoll_ceiling: 20\n"), 0o600))

	opts := &rootOptions{}
	root := newRootCmd(opts)

	shellCmd, _, err := root.Find([]string{"shell"})
	require.NoError(t, err)
	require.NoError(t, shellCmd.ParseFlags([]string{"--config", path, "--binary=false", "--opaque"}))

	cfg, err := opts.config(shellCmd)
	require.NoError(t, err)

	assert.False(t, cfg.BinaryOutput)
	assert.Equal(t, 20, cfg.PollCeiling)
	assert.Equal(t, config.OpaqueText, cfg.OutputMode())

	opts.configPath = filepath.Join(t.TempDir(), "missing.yml")
	_, err = opts.config(shellCmd)
	assert.Error(t, err)
}

func newTestHost(t *testing.T, cfg config.Config) (*host, *bytes.Buffer) {
	var out bytes.Buffer

	h, err := newHost(cfg, logger.GetQuietLogger(""), &out)
	require.NoError(t, err)

	return h, &out
}

func TestExec(t *testing.T) {
	h, out := newTestHost(t, config.Default())

	status, err := h.exec(context.Background(), []string{"sh", "-c", "echo 42; echo oops >&2; exit 3"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, status)
	assert.Contains(t, out.String(), "stdout: 42\n")
	assert.Contains(t, out.String(), "stderr: oops\n")
	assert.True(t, strings.HasSuffix(out.String(), "done: 3\n"))
}

func TestExecForwardsStdin(t *testing.T) {
	h, out := newTestHost(t, config.Default())

	status, err := h.exec(context.Background(), []string{"sh", "-c", `read a b; echo "$b $a"`}, strings.NewReader("first second\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "stdout: second first\n")
}

func TestExecSynchronous(t *testing.T) {
	cfg := config.Default()
	cfg.Synchronous = true
	cfg.BinaryOutput = true
	h, out := newTestHost(t, cfg)

	status, err := h.exec(context.Background(), []string{"printf", "AB"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Equal(t, "stdout: list 65 66\ndone: 0\n", out.String())
}

func TestExecFailure(t *testing.T) {
	h, out := newTestHost(t, config.Default())

	_, err := h.exec(context.Background(), []string{"definitely-not-a-real-command-xyz"}, nil)
	assert.ErrorContains(t, err, "not found")
	assert.Empty(t, out.String())
	assert.Equal(t, executable.Idle, h.supervisor.State())
}

func TestShell(t *testing.T) {
	h, out := newTestHost(t, config.Default())

	err := h.shell(context.Background(), strings.NewReader("exec head -c 3\nsend 7 8\n"))
	require.NoError(t, err)

	assert.Equal(t, "stdout: list 7 8\ndone: 0\n", out.String())
}

func TestShellQuit(t *testing.T) {
	h, out := newTestHost(t, config.Default())

	err := h.shell(context.Background(), strings.NewReader("exec sleep 30; quit\n"))
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "done: ")
	assert.Equal(t, executable.Idle, h.supervisor.State())
}

func TestHandleShellLine(t *testing.T) {
	cfg := config.Default()
	cfg.Synchronous = true
	cfg.TextFraming = config.TextFramingOpaque

	recorder := emitter.NewRecorder()
	var logs bytes.Buffer

	supervisor, err := executable.NewSupervisor(cfg, recorder, scheduler.NewManual(), logger.New(&logs, false, ""))
	require.NoError(t, err)
	defer supervisor.Destroy()

	log := logger.New(&logs, false, "")

	assert.False(t, handleShellLine(supervisor, log, `exec printf a\ b; exec printf \$1`))
	assert.Equal(t, "a b$1", recorder.Text(emitter.Stdout))
	assert.Len(t, recorder.Messages(emitter.Done), 2)

	assert.False(t, handleShellLine(supervisor, log, "bogus 1 2"))
	assert.Contains(t, logs.String(), "Unknown message: bogus")

	assert.False(t, handleShellLine(supervisor, log, "send 1; kill"))
	assert.True(t, handleShellLine(supervisor, log, "kill; quit"))
	assert.False(t, handleShellLine(supervisor, log, ""))
}

func TestExitStatusError(t *testing.T) {
	err := &exitStatusError{status: 4}
	assert.Equal(t, "exit status 4", err.Error())
}
