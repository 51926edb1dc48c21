package classifier

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kozaktomas/face-sorter/internal/gallery"
)

// testGallery builds a labeled folder with alice (red), bob (green) and an
// exclusion example (blue), and returns the gallery built from it.
func testGallery(t *testing.T) (*gallery.Gallery, string) {
	t.Helper()

	dir := t.TempDir()
	writeImage(t, dir, "alice_1.png", red)
	writeImage(t, dir, "bob_1.png", green)
	writeImage(t, dir, "none_1.png", blue)

	g, err := gallery.Build(context.Background(), dir, testPipeline(), gallery.BuildOptions{Policy: gallery.PolicyRaise})
	if err != nil {
		t.Fatalf("build test gallery: %v", err)
	}
	return g, dir
}

func TestClassify_MatchesPersons(t *testing.T) {
	g, _ := testGallery(t)
	cls := New(testPipeline(), g, 1.0)

	labels, err := cls.Classify(context.Background(), faceImage(t, red, green))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if !reflect.DeepEqual(labels, []string{"alice", "bob"}) {
		t.Errorf("expected [alice bob], got %v", labels)
	}
}

func TestClassify_ZeroDetectionsEmptySet(t *testing.T) {
	g, _ := testGallery(t)
	cls := New(testPipeline(), g, 1.0)

	labels, err := cls.Classify(context.Background(), faceImage(t))
	if err != nil {
		t.Fatalf("expected no error for zero detections, got %v", err)
	}
	if len(labels) != 0 {
		t.Errorf("expected empty label set, got %v", labels)
	}
}

// Several faces of the same person in one image yield one label.
func TestClassify_DeduplicatesSamePerson(t *testing.T) {
	g, _ := testGallery(t)
	cls := New(testPipeline(), g, 1.0)

	labels, err := cls.Classify(context.Background(), faceImage(t, red, red, red))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if !reflect.DeepEqual(labels, []string{"alice"}) {
		t.Errorf("expected [alice], got %v", labels)
	}
}

// A face matching the exclusion class never appears in the label set.
func TestClassify_ExcludedFaceSuppressed(t *testing.T) {
	g, _ := testGallery(t)
	cls := New(testPipeline(), g, 1.0)

	labels, err := cls.Classify(context.Background(), faceImage(t, blue, red))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if !reflect.DeepEqual(labels, []string{"alice"}) {
		t.Errorf("expected only [alice], got %v", labels)
	}
}

func TestRecognise_Deterministic(t *testing.T) {
	_, labeledDir := testGallery(t)

	rawDir := t.TempDir()
	writeImage(t, rawDir, "party.png", red, green, blue)
	imagePath := filepath.Join(rawDir, "party.png")

	first, err := Recognise(context.Background(), imagePath, labeledDir, testPipeline(), 1.0, gallery.PolicyRaise)
	if err != nil {
		t.Fatalf("Recognise failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := Recognise(context.Background(), imagePath, labeledDir, testPipeline(), 1.0, gallery.PolicyRaise)
		if err != nil {
			t.Fatalf("Recognise failed on repeat: %v", err)
		}
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("recognise not deterministic: %v != %v", got, first)
		}
	}

	if !reflect.DeepEqual(first, []string{"alice", "bob"}) {
		t.Errorf("expected [alice bob], got %v", first)
	}
}

func TestClassifyFileDetailed_DecisionsPerFace(t *testing.T) {
	g, _ := testGallery(t)
	cls := New(testPipeline(), g, 1.0)

	dir := t.TempDir()
	writeImage(t, dir, "group.png", red, blue)

	faces, decisions, err := cls.ClassifyFileDetailed(context.Background(), filepath.Join(dir, "group.png"))
	if err != nil {
		t.Fatalf("ClassifyFileDetailed failed: %v", err)
	}

	if len(faces) != 2 || len(decisions) != 2 {
		t.Fatalf("expected 2 faces and decisions, got %d/%d", len(faces), len(decisions))
	}
	if decisions[0].Kind != gallery.DecisionMatched || decisions[0].Label != "alice" {
		t.Errorf("face 0: expected matched alice, got %+v", decisions[0])
	}
	if decisions[1].Kind != gallery.DecisionExcluded {
		t.Errorf("face 1: expected excluded, got %+v", decisions[1])
	}
}
