package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const sampleCSV = `t1,1,2,5
t2,2,4
t3,2,3
t4,1,2,4
t5,1,3
t6,2,3
t7,1,3
t8,1,2,3,5
t9,1,2,3
`

// setupCLI isolates a test from the user's home, config and environment,
// and resets every flag once the test ends.
func setupCLI(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, env := range []string{
		"BASKETMINE_MIN_SUPPORT",
		"BASKETMINE_PRUNE_REFERENCE",
		"BASKETMINE_DATASETS_DIR",
		"BASKETMINE_ADDR",
		"BASKETMINE_DB",
		"BASKETMINE_LOG_LEVEL",
		"BASKETMINE_LOG_FORMAT",
	} {
		t.Setenv(env, "")
	}

	prevLogger := slog.Default()
	resetCommandState()
	t.Cleanup(func() {
		resetCommandState()
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
		slog.SetDefault(prevLogger)
	})
	return home
}

// resetCommandState restores every flag (and the variable bound to it) to
// its default and forgets the loaded config.
func resetCommandState() {
	var reset func(cmd *cobra.Command)
	reset = func(cmd *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range cmd.Commands() {
			reset(sub)
		}
	}
	reset(RootCmd)
	cfg = nil
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)

	err := RootCmd.Execute()
	resetCommandState()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
