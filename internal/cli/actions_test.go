package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lazypower/heartbeat/internal/config"
	"github.com/lazypower/heartbeat/internal/store"
	"github.com/spf13/cobra"
)

func testCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "heartbeat.db")
	cfg.Output.Color = false
	return cfg
}

func TestPromptAction(t *testing.T) {
	in := strings.NewReader("backup\nbackup overdue by %s\nbackup never run\n3600\n")
	out := &bytes.Buffer{}

	a, err := promptAction(in, out)
	if err != nil {
		t.Fatalf("promptAction: %v", err)
	}
	if a.Name != "backup" {
		t.Errorf("Name = %q", a.Name)
	}
	if a.LastLine != "backup overdue by %s" {
		t.Errorf("LastLine = %q", a.LastLine)
	}
	if a.NeverLine != "backup never run" {
		t.Errorf("NeverLine = %q", a.NeverLine)
	}
	if a.Leniency != time.Hour {
		t.Errorf("Leniency = %v, want 1h", a.Leniency)
	}
	if !strings.Contains(out.String(), "Name: ") {
		t.Errorf("prompts missing from output: %q", out.String())
	}
}

func TestPromptActionBlankLeniency(t *testing.T) {
	for _, raw := range []string{"", "soon", "-5"} {
		in := strings.NewReader("a\nl %s\nn\n" + raw + "\n")
		a, err := promptAction(in, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("promptAction(%q): %v", raw, err)
		}
		if a.Leniency != 0 {
			t.Errorf("leniency %q parsed to %v, want 0", raw, a.Leniency)
		}
	}
}

func TestPromptActionEmptyName(t *testing.T) {
	in := strings.NewReader("\nl\nn\n60\n")
	if _, err := promptAction(in, &bytes.Buffer{}); err == nil {
		t.Error("empty name should be rejected")
	}
}

func TestPromptActionTruncatedInput(t *testing.T) {
	in := strings.NewReader("backup\n")
	if _, err := promptAction(in, &bytes.Buffer{}); err == nil {
		t.Error("truncated input should be an error")
	}
}

func TestAddPingMotdFlow(t *testing.T) {
	cfg := testConfig(t)

	// add
	cmd, _, _ := testCmd()
	cmd.SetIn(strings.NewReader("backup\nbackup overdue by %s\nbackup never run\n60\n"))
	if err := runAdd(cmd, cfg); err != nil {
		t.Fatalf("runAdd: %v", err)
	}

	// motd: never performed, so the never line shows
	cmd, out, _ := testCmd()
	if err := runMotd(cmd, cfg); err != nil {
		t.Fatalf("runMotd: %v", err)
	}
	if !strings.Contains(out.String(), "backup never run") {
		t.Errorf("motd = %q, want the never line", out.String())
	}

	// ping, then motd is quiet
	cmd, _, errOut := testCmd()
	if err := runPing(cmd, cfg, "backup"); err != nil {
		t.Fatalf("runPing: %v", err)
	}
	if errOut.Len() != 0 {
		t.Errorf("ping stderr = %q, want nothing", errOut.String())
	}

	cmd, out, _ = testCmd()
	if err := runMotd(cmd, cfg); err != nil {
		t.Fatalf("runMotd after ping: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("motd after ping = %q, want nothing", out.String())
	}
}

func TestListFlow(t *testing.T) {
	cfg := testConfig(t)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	st.Add(store.Action{Name: "zebra", NeverLine: "n", LastLine: "l %s"})
	st.Add(store.Action{Name: "apple", NeverLine: "n", LastLine: "l %s"})
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	cmd, out, _ := testCmd()
	if err := runList(cmd, cfg); err != nil {
		t.Fatalf("runList: %v", err)
	}
	if out.String() != "apple\nzebra\n" {
		t.Errorf("list = %q, want sorted names one per line", out.String())
	}
}

func TestSoftErrorsExitClean(t *testing.T) {
	cfg := testConfig(t)

	cmd, _, errOut := testCmd()
	if err := runPing(cmd, cfg, "ghost"); err != nil {
		t.Fatalf("runPing(missing) = %v, want nil (soft error)", err)
	}
	if !strings.Contains(errOut.String(), "unknown heartbeat: ghost") {
		t.Errorf("stderr = %q, want an unknown heartbeat message", errOut.String())
	}

	cmd, _, errOut = testCmd()
	if err := runRemove(cmd, cfg, "ghost"); err != nil {
		t.Fatalf("runRemove(missing) = %v, want nil (soft error)", err)
	}
	if !strings.Contains(errOut.String(), "unknown heartbeat: ghost") {
		t.Errorf("stderr = %q, want an unknown heartbeat message", errOut.String())
	}
}

func TestRemoveFlow(t *testing.T) {
	cfg := testConfig(t)

	cmd, _, _ := testCmd()
	cmd.SetIn(strings.NewReader("water\nno water for %s\nnever watered\n\n"))
	if err := runAdd(cmd, cfg); err != nil {
		t.Fatalf("runAdd: %v", err)
	}

	cmd, _, errOut := testCmd()
	if err := runRemove(cmd, cfg, "water"); err != nil {
		t.Fatalf("runRemove: %v", err)
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr = %q, want nothing", errOut.String())
	}

	cmd, out, _ := testCmd()
	if err := runList(cmd, cfg); err != nil {
		t.Fatalf("runList: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("list after remove = %q, want empty", out.String())
	}
}

func TestStatusFlow(t *testing.T) {
	cfg := testConfig(t)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	st.Add(store.Action{Name: "backup", NeverLine: "n", LastLine: "l %s"})
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	cmd, out, _ := testCmd()
	if err := runStatus(cmd, cfg, "backup"); err != nil {
		t.Fatalf("runStatus: %v", err)
	}
	if !strings.Contains(out.String(), "backup has never been done") {
		t.Errorf("status = %q", out.String())
	}

	cmd, _, errOut := testCmd()
	if err := runStatus(cmd, cfg, "ghost"); err != nil {
		t.Fatalf("runStatus(missing) = %v, want nil", err)
	}
	if !strings.Contains(errOut.String(), "unknown heartbeat: ghost") {
		t.Errorf("stderr = %q", errOut.String())
	}
}
