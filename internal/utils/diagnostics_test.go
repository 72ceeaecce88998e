package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestDiagnosticSystem_Levels(t *testing.T) {
	var out bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticWarn, &out)

	d.Info("hidden")
	d.Success("hidden as well")
	d.Warn("unresolved variable $%s$", "Name")
	d.Error("broken %d", 1)
	d.Verbose("hidden too")

	got := out.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("messages above the level leaked: %q", got)
	}
	if !strings.Contains(got, "[WARN] unresolved variable $Name$\n") {
		t.Errorf("missing warning in %q", got)
	}
	if !strings.Contains(got, "[ERROR] broken 1\n") {
		t.Errorf("missing error in %q", got)
	}
	if d.WarningCount() != 1 || d.ErrorCount() != 1 {
		t.Errorf("unexpected counts: %d warnings, %d errors", d.WarningCount(), d.ErrorCount())
	}
}

func TestDiagnosticSystem_ErrorsGoToErrorOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticInfo, &out)
	d.SetOutput(&out, &errOut)

	d.Success("wrote %s", "Channel.cs")
	d.Error("failed")

	if out.String() != "[OK] wrote Channel.cs\n" {
		t.Errorf("unexpected stdout %q", out.String())
	}
	if errOut.String() != "[ERROR] failed\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestDiagnosticSystem_CountsSuppressedWarnings(t *testing.T) {
	var out bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticSilent, &out)

	d.Warn("not shown")
	d.Error("not shown either")
	if out.Len() != 0 {
		t.Errorf("silent diagnostics wrote %q", out.String())
	}
	if d.WarningCount() != 1 || d.ErrorCount() != 1 {
		t.Errorf("expected suppressed messages to be counted")
	}
}

func TestDiagnosticSystem_SummaryAndList(t *testing.T) {
	var out bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticInfo, &out)

	d.Section("generate")
	d.Nested(func() {
		d.List("core/list.rtgen.yaml")
	})
	d.List("after")
	d.Summary("Done", Stat{"Written", 2}, Stat{"Failed", 0})

	expected := "rtgen: generate\n  - core/list.rtgen.yaml\n- after\n\nDone\n   Written: 2\n   Failed: 0\n"
	if out.String() != expected {
		t.Errorf("expected %q, got %q", expected, out.String())
	}
}
