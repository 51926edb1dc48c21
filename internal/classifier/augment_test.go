package classifier

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
)

func TestAddNone_CreatesSequentialCrops(t *testing.T) {
	labeledDir := t.TempDir()
	srcDir := t.TempDir()
	writeImage(t, srcDir, "crowd.png", red, green, blue)

	created, err := AddNone(context.Background(), filepath.Join(srcDir, "crowd.png"), labeledDir, fakeProvider{})
	if err != nil {
		t.Fatalf("AddNone failed: %v", err)
	}

	want := []string{"none_1.png", "none_2.png", "none_3.png"}
	sort.Strings(created)
	if len(created) != len(want) {
		t.Fatalf("expected %v, got %v", want, created)
	}
	for i, name := range want {
		if created[i] != name {
			t.Errorf("expected %s, got %s", name, created[i])
		}
	}
}

// Repeated runs continue numbering instead of reusing indices.
func TestAddNone_IndicesNeverReused(t *testing.T) {
	labeledDir := t.TempDir()
	srcDir := t.TempDir()
	writeImage(t, srcDir, "a.png", red, green)
	writeImage(t, srcDir, "b.png", blue)

	first, err := AddNone(context.Background(), filepath.Join(srcDir, "a.png"), labeledDir, fakeProvider{})
	if err != nil {
		t.Fatalf("first AddNone failed: %v", err)
	}
	second, err := AddNone(context.Background(), filepath.Join(srcDir, "b.png"), labeledDir, fakeProvider{})
	if err != nil {
		t.Fatalf("second AddNone failed: %v", err)
	}

	seen := map[string]bool{}
	for _, name := range append(first, second...) {
		if seen[name] {
			t.Errorf("filename %s created twice", name)
		}
		seen[name] = true
	}
	if len(second) != 1 || second[0] != "none_3.png" {
		t.Errorf("expected second run to continue at none_3.png, got %v", second)
	}
}

func TestAddNone_ZeroFacesCreatesNothing(t *testing.T) {
	labeledDir := t.TempDir()
	srcDir := t.TempDir()
	writeImage(t, srcDir, "empty.png") // too small to hold a face block

	created, err := AddNone(context.Background(), filepath.Join(srcDir, "empty.png"), labeledDir, fakeProvider{})
	if err != nil {
		t.Fatalf("AddNone failed: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("expected no crops, got %v", created)
	}
}

func TestNextNoneIndex(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     int
	}{
		{"empty folder", nil, 1},
		{"continues past highest", []string{"none_1.png", "none_2.png"}, 3},
		{"gaps do not refill", []string{"none_1.png", "none_7.png"}, 8},
		{"other labels ignored", []string{"alice_1.png", "bob_99.png"}, 1},
		{"non numeric suffix ignored", []string{"none_old.png", "none_2.png"}, 3},
		{"jpeg counted", []string{"none_4.jpg"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.existing {
				writeImage(t, dir, name, red)
			}
			got, err := nextNoneIndex(dir)
			if err != nil {
				t.Fatalf("nextNoneIndex failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
