package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/killallgit/recipe-api/pkg/config"
)

// useTempConfig points every on-disk location at a fresh temp directory
func useTempConfig(t *testing.T) string {
	t.Helper()
	if err := config.Init(); err != nil {
		t.Fatalf("config.Init() error = %v", err)
	}

	dir := t.TempDir()
	viper.Set("database.path", filepath.Join(dir, "recipes.db"))
	viper.Set("handoff.backend", config.HandoffBackendFile)
	viper.Set("handoff.shared_dir", filepath.Join(dir, "shared"))
	viper.Set("handoff.watch", false)
	viper.Set("storage.temp_dir", filepath.Join(dir, "tmp"))
	viper.Set("apify.token", "")
	viper.Set("logging.level", "error")
	return dir
}

// execute runs the root command with args and returns its combined output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	resetFlags(cmd)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default; the command tree is shared across tests
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}
