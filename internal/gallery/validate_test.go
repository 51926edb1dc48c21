package gallery

import (
	"context"
	"errors"
	"testing"
)

func TestParsePolicy(t *testing.T) {
	for _, valid := range []string{"ignore", "warn", "raise"} {
		if _, err := ParsePolicy(valid); err != nil {
			t.Errorf("ParsePolicy(%q) returned error: %v", valid, err)
		}
	}

	if _, err := ParsePolicy("crash"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestValidate_CleanFolder(t *testing.T) {
	dir := t.TempDir()
	writeLabeled(t, dir, "alice_1.png", red)
	writeLabeled(t, dir, "bob_1.png", green)

	report, err := Validate(context.Background(), dir, testPipeline(), PolicyWarn)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if report.Checked != 2 {
		t.Errorf("expected 2 checked, got %d", report.Checked)
	}
	if len(report.Valid) != 2 {
		t.Errorf("expected 2 valid, got %d", len(report.Valid))
	}
	if len(report.Violations) != 0 {
		t.Errorf("expected no violations, got %v", report.Violations)
	}
}

// A two-face labeled image is a violation under every policy; warn collects
// exactly one report entry for it, raise returns it as the error.
func TestValidate_MultiFacePolicies(t *testing.T) {
	dir := t.TempDir()
	writeLabeled(t, dir, "alice_1.png", red)
	writeLabeled(t, dir, "bob_1.png", green, blue)

	t.Run("raise", func(t *testing.T) {
		_, err := Validate(context.Background(), dir, testPipeline(), PolicyRaise)
		var faceCount *FaceCountViolationError
		if !errors.As(err, &faceCount) {
			t.Fatalf("expected FaceCountViolationError, got %v", err)
		}
		if faceCount.Faces != 2 {
			t.Errorf("expected 2 faces in violation, got %d", faceCount.Faces)
		}
	})

	t.Run("warn", func(t *testing.T) {
		report, err := Validate(context.Background(), dir, testPipeline(), PolicyWarn)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if len(report.Violations) != 1 {
			t.Fatalf("expected exactly 1 violation, got %d", len(report.Violations))
		}
		if len(report.Valid) != 1 {
			t.Errorf("expected 1 valid file, got %d", len(report.Valid))
		}
	})

	t.Run("ignore", func(t *testing.T) {
		report, err := Validate(context.Background(), dir, testPipeline(), PolicyIgnore)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if len(report.Violations) != 1 {
			t.Errorf("expected violation collected under ignore, got %d", len(report.Violations))
		}
	})
}

func TestValidate_ZeroFaceViolation(t *testing.T) {
	dir := t.TempDir()
	writeLabeled(t, dir, "alice_1.png") // no face blocks

	_, err := Validate(context.Background(), dir, testPipeline(), PolicyRaise)
	var faceCount *FaceCountViolationError
	if !errors.As(err, &faceCount) {
		t.Fatalf("expected FaceCountViolationError, got %v", err)
	}
	if faceCount.Faces != 0 {
		t.Errorf("expected 0 faces in violation, got %d", faceCount.Faces)
	}
}

func TestValidate_ConfusableLabels(t *testing.T) {
	dir := t.TempDir()
	writeLabeled(t, dir, "Jiri_1.png", red)
	writeLabeled(t, dir, "Jiří_1.png", green)
	writeLabeled(t, dir, "bob_1.png", blue)

	report, err := Validate(context.Background(), dir, testPipeline(), PolicyIgnore)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(report.LabelWarnings) != 1 {
		t.Errorf("expected 1 confusable-label warning, got %v", report.LabelWarnings)
	}
	// Advisory only: all files remain valid.
	if len(report.Valid) != 3 {
		t.Errorf("expected 3 valid files, got %d", len(report.Valid))
	}
}
