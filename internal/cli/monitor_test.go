package cli

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestMonitorCommand_RejectsInvalidURLOverride(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	rootCmd.SetArgs([]string{"monitor", "--url", "not-a-url"})
	err = rootCmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "base_url") {
		t.Fatalf("flag override must be re-validated, got %v", err)
	}
}
