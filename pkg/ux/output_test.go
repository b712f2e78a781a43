package ux

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// Helper to capture stdout
func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// Helper to capture stderr
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// =============================================================================
// Icon.Render Tests
// =============================================================================

func TestIcon_Render_Styled(t *testing.T) {
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconPending} {
		if icon.Render() == "" {
			t.Errorf("expected non-empty result for %q", icon)
		}
	}
}

func TestIcon_Render_Default(t *testing.T) {
	// Icons without specific styling render as themselves
	for _, icon := range []Icon{IconArrow, IconBullet} {
		result := icon.Render()
		if result != string(icon) {
			t.Errorf("expected %q for %q, got %q", string(icon), icon, result)
		}
	}
}

// =============================================================================
// Title Tests
// =============================================================================

func TestTitle_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		Title("Test Title")
	})

	// In machine mode, Title should output nothing
	if output != "" {
		t.Errorf("expected no output in machine mode, got %q", output)
	}
}

func TestTitle_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		Title("Test Title")
	})

	if output == "" {
		t.Error("expected styled output in styled mode")
	}
}

// =============================================================================
// Success Tests
// =============================================================================

func TestSuccess_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		Success("run complete")
	})

	if output != "OK: run complete\n" {
		t.Errorf("expected 'OK: run complete', got %q", output)
	}
}

func TestSuccess_PlainMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModePlain)

	output := captureStdout(func() {
		Success("run complete")
	})

	if !strings.Contains(output, "run complete") {
		t.Errorf("expected message in plain mode, got %q", output)
	}
}

func TestSuccess_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		Success("run complete")
	})

	if output == "" {
		t.Error("expected styled output in styled mode")
	}
}

// =============================================================================
// Warning Tests
// =============================================================================

func TestWarning_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStderr(func() {
		Warning("near threshold")
	})

	if output != "WARN: near threshold\n" {
		t.Errorf("expected 'WARN: near threshold', got %q", output)
	}
}

func TestWarning_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		Warning("near threshold")
	})

	if output == "" {
		t.Error("expected styled output in styled mode")
	}
}

// =============================================================================
// Error Tests
// =============================================================================

func TestError_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStderr(func() {
		Error("verification mismatch")
	})

	if output != "ERROR: verification mismatch\n" {
		t.Errorf("expected 'ERROR: verification mismatch', got %q", output)
	}
}

func TestError_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		Error("verification mismatch")
	})

	if output == "" {
		t.Error("expected styled output in styled mode")
	}
}

// =============================================================================
// Info and Muted Tests
// =============================================================================

func TestInfo_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		Info("loading corpus")
	})

	if output != "loading corpus\n" {
		t.Errorf("expected plain 'loading corpus', got %q", output)
	}
}

func TestInfo_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		Info("loading corpus")
	})

	if output == "" {
		t.Error("expected styled output in styled mode")
	}
}

func TestMuted_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		Muted("details")
	})

	if output != "" {
		t.Errorf("expected no output in machine mode, got %q", output)
	}
}

// =============================================================================
// Field Tests
// =============================================================================

func TestField_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		Field("Budget", "500ms")
	})

	if output != "Budget: 500ms\n" {
		t.Errorf("expected 'Budget: 500ms', got %q", output)
	}
}

func TestField_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		Field("Budget", "500ms")
	})

	if !strings.Contains(output, "500ms") {
		t.Errorf("expected value in output, got %q", output)
	}
}

// =============================================================================
// ListItem Tests
// =============================================================================

func TestListItem_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		ListItem("checksum/swar", "verified")
	})

	if output != "checksum/swar\tverified\n" {
		t.Errorf("expected tab-separated output, got %q", output)
	}
}

func TestListItem_MachineMode_NoNote(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		ListItem("checksum/serial", "")
	})

	if output != "checksum/serial\n" {
		t.Errorf("expected bare name, got %q", output)
	}
}

func TestListItem_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		ListItem("checksum/swar", "verified")
	})

	if !strings.Contains(output, "checksum/swar") {
		t.Errorf("expected name in output, got %q", output)
	}
}

// =============================================================================
// Box Tests
// =============================================================================

func TestBox_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		Box("Title", "Content here")
	})

	if output != "Title: Content here\n" {
		t.Errorf("expected 'Title: Content here', got %q", output)
	}
}

func TestBox_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		Box("Title", "Content here")
	})

	if output == "" {
		t.Error("expected styled box output in styled mode")
	}
}

func TestErrorBox_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStderr(func() {
		ErrorBox("Regression", "checksum/swar slowed by 20%")
	})

	if output != "ERROR Regression: checksum/swar slowed by 20%\n" {
		t.Errorf("expected machine error box, got %q", output)
	}
}

func TestErrorBox_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		ErrorBox("Regression", "checksum/swar slowed by 20%")
	})

	if output == "" {
		t.Error("expected styled error box output in styled mode")
	}
}

// =============================================================================
// Summary Tests
// =============================================================================

func TestSummary_MachineMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeMachine)

	output := captureStdout(func() {
		Summary(5, 2, 7)
	})

	if output != "SUMMARY: timed=5 failed=2 total=7\n" {
		t.Errorf("expected machine format summary, got %q", output)
	}
}

func TestSummary_StyledMode(t *testing.T) {
	orig := GetOutputMode()
	defer SetOutputMode(orig)

	SetOutputMode(ModeStyled)

	output := captureStdout(func() {
		Summary(10, 0, 10)
	})

	if output == "" {
		t.Error("expected styled summary output in styled mode")
	}
}
