// internal/cli/cli_test.go
package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-od/internal/poller"
	"github.com/tamzrod/modbus-od/internal/status"
)

var schema = filepath.Join("testdata", "device.yaml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "odctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"ls", "get", "set", "console", "run"}

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

	schemaFlag := cmd.PersistentFlags().Lookup("schema")
	require.NotNil(t, schemaFlag)
	assert.Equal(t, "s", schemaFlag.Shorthand)

	accessFlag := cmd.PersistentFlags().Lookup("access")
	require.NotNil(t, accessFlag)
	assert.Equal(t, "user", accessFlag.DefValue)
}

func TestGet(t *testing.T) {
	out, err := execute(t, "--schema", schema, "get", "limits.max")
	require.NoError(t, err)
	assert.Equal(t, "limits.max: 100\n", out)

	out, err = execute(t, "-s", schema, "get", "gains")
	require.NoError(t, err)
	assert.Equal(t, "gains:\n\tp: 10\n\ti: 2\n\td: 0\n", out)
}

func TestLs(t *testing.T) {
	out, err := execute(t, "-s", schema, "ls", "limits")
	require.NoError(t, err)
	assert.Equal(t, "Record:{min:i16, max:i16}\n", out)
}

func TestSet_AccessAndRange(t *testing.T) {
	out, err := execute(t, "-s", schema, "set", "limits.max", "600")
	require.NoError(t, err)
	assert.Equal(t, "Value too high\n", out)

	out, err = execute(t, "-s", schema, "set", "label", `"pump-02"`)
	require.NoError(t, err)
	assert.Equal(t, "Object is read only\n", out)

	out, err = execute(t, "-s", schema, "--access", "factory", "set", "label", `"pump-02"`)
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
}

func TestSchemaRequired(t *testing.T) {
	_, err := execute(t, "get", "status")
	assert.Error(t, err)
}

func TestBadAccess(t *testing.T) {
	_, err := execute(t, "-s", schema, "--access", "root", "ls")
	assert.Error(t, err)
}

func TestMissingSchemaFile(t *testing.T) {
	_, err := execute(t, "-s", filepath.Join("testdata", "missing.yaml"), "ls")
	assert.Error(t, err)
}

// ---- sync loop ----

type fakeWriter struct {
	err   error
	calls int
}

func (f *fakeWriter) Write(poller.PollResult) error {
	f.calls++
	return f.err
}

func TestSyncLoop_RecordsOutcome(t *testing.T) {
	w := &fakeWriter{}
	rec := status.NewRecorder()
	l := &syncLoop{endpoint: "test", writer: w, rec: rec, lock: &sync.Mutex{}}

	l.handle(poller.PollResult{})
	assert.Equal(t, status.Snapshot{Health: status.HealthOK}, rec.Snapshot())

	l.handle(poller.PollResult{Err: errors.New("timeout")})
	l.tick()
	l.tick()
	assert.Equal(t, status.Snapshot{Health: status.HealthError, LastErrorCode: 1, SecondsInError: 2}, rec.Snapshot())
	assert.Equal(t, 2, w.calls, "writer sees every cycle")

	l.handle(poller.PollResult{})
	assert.Equal(t, status.HealthOK, rec.Snapshot().Health)
	assert.Zero(t, rec.Snapshot().SecondsInError)
}

func TestSyncLoop_WriteErrorCounts(t *testing.T) {
	w := &fakeWriter{err: errors.New("writer: obj=limits err=refused")}
	rec := status.NewRecorder()
	l := &syncLoop{endpoint: "test", writer: w, rec: rec, lock: &sync.Mutex{}}

	l.handle(poller.PollResult{})
	assert.Equal(t, status.HealthError, rec.Snapshot().Health)
}

// ---- run ----

// holdingEndpoint accepts connections and never answers, so every
// request on the sync endpoint runs into its timeout.
func holdingEndpoint(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				_, _ = io.Copy(io.Discard, conn)
			}()
		}
	}()
	return ln.Addr().String()
}

func syncSchema(t *testing.T, endpoint string) string {
	t.Helper()

	raw, err := os.ReadFile(schema)
	require.NoError(t, err)

	doc := strings.Replace(string(raw), "127.0.0.1:502", endpoint, 1)
	doc = strings.Replace(doc, "interval_ms: 500", "interval_ms: 50\n  timeout_ms: 100", 1)

	path := filepath.Join(t.TempDir(), "device.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestRun_ConsoleStopsOnContextCancel(t *testing.T) {
	path := syncSchema(t, holdingEndpoint(t))

	// stdin that stays open for the whole run
	stdin, stdinW := io.Pipe()
	t.Cleanup(func() { stdinW.Close() })

	cmd := NewRootCommand()
	cmd.SetIn(stdin)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"-s", path, "run"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatalf("run still blocked after cancel")
	}
}

func TestRun_HeadlessStopsOnContextCancel(t *testing.T) {
	path := syncSchema(t, holdingEndpoint(t))

	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"-s", path, "run", "--headless"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatalf("headless run still blocked after deadline")
	}
}
