package assembler

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

//nolint:gochecknoglobals // Shared test fixture
var testSections = []string{"work", "education", "skills"}

// writeFile creates a file (and its parents) inside a test profile.
func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0750)
	if err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}

	err = os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestAssembleOrdering(t *testing.T) {
	profileDir := t.TempDir()
	writeFile(t, filepath.Join(profileDir, "basics.json"), `{"name": "John Smith"}`)

	// Written out of order on purpose; only the numeric prefix counts.
	writeFile(t, filepath.Join(profileDir, "work", "10.json"), `{"position": "third"}`)
	writeFile(t, filepath.Join(profileDir, "work", "0.json"), `{"position": "first"}`)
	writeFile(t, filepath.Join(profileDir, "work", "2.json"), `{"position": "second"}`)

	doc, err := Assemble(profileDir, testSections)
	if err != nil {
		t.Fatalf("Failed to assemble: %v", err)
	}

	work, ok := doc["work"].([]interface{})
	if !ok {
		t.Fatalf("Expected work to be an array, got %T", doc["work"])
	}

	if len(work) != 3 {
		t.Fatalf("Expected 3 work entries, got %d", len(work))
	}

	var positions []string
	for _, item := range work {
		positions = append(positions, item.(map[string]interface{})["position"].(string))
	}

	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(positions, want) {
		t.Errorf("Expected order %v, got %v", want, positions)
	}
}

func TestAssembleSplicing(t *testing.T) {
	profileDir := t.TempDir()
	writeFile(t, filepath.Join(profileDir, "basics.json"), `{"name": "John Smith"}`)
	writeFile(t, filepath.Join(profileDir, "work", "0.json"), `[{"position": "a"}, {"position": "b"}]`)
	writeFile(t, filepath.Join(profileDir, "work", "1.json"), `{"position": "c"}`)

	doc, err := Assemble(profileDir, testSections)
	if err != nil {
		t.Fatalf("Failed to assemble: %v", err)
	}

	work := doc["work"].([]interface{})
	if len(work) != 3 {
		t.Fatalf("Expected array fragment to be spliced into 3 entries, got %d", len(work))
	}
}

func TestAssembleMissingBasics(t *testing.T) {
	profileDir := t.TempDir()
	writeFile(t, filepath.Join(profileDir, "work", "0.json"), `{"position": "a"}`)

	_, err := Assemble(profileDir, testSections)
	if err == nil {
		t.Fatal("Expected error for missing basics.json, got nil")
	}
	if !errors.Is(err, ErrMissingBasics) {
		t.Errorf("Expected ErrMissingBasics, got %v", err)
	}
}

func TestAssembleProfileNotFound(t *testing.T) {
	_, err := Assemble("/nonexistent/profile", testSections)
	if err == nil {
		t.Fatal("Expected error for missing profile directory, got nil")
	}
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
}

func TestAssembleBasicsOnly(t *testing.T) {
	profileDir := t.TempDir()
	writeFile(t, filepath.Join(profileDir, "basics.json"), `{"name": "John Smith"}`)

	doc, err := Assemble(profileDir, testSections)
	if err != nil {
		t.Fatalf("Failed to assemble basics-only profile: %v", err)
	}

	if len(doc) != 1 {
		t.Errorf("Expected only basics in document, got keys %v", docKeys(doc))
	}

	basics := doc["basics"].(map[string]interface{})
	if basics["name"] != "John Smith" {
		t.Errorf("Expected basics.name 'John Smith', got %v", basics["name"])
	}
}

func TestAssembleMalformedFragment(t *testing.T) {
	profileDir := t.TempDir()
	writeFile(t, filepath.Join(profileDir, "basics.json"), `{"name": "John Smith"}`)

	badPath := filepath.Join(profileDir, "work", "0.json")
	writeFile(t, badPath, `{not valid json`)

	_, err := Assemble(profileDir, testSections)
	if err == nil {
		t.Fatal("Expected error for malformed fragment, got nil")
	}
	if !errors.Is(err, ErrMalformedFragment) {
		t.Errorf("Expected ErrMalformedFragment, got %v", err)
	}
	if !strings.Contains(err.Error(), badPath) {
		t.Errorf("Expected error to name the file %s, got: %v", badPath, err)
	}
}

func TestAssembleBaseDocument(t *testing.T) {
	profileDir := t.TempDir()
	writeFile(t, filepath.Join(profileDir, "resume.json"), `{"meta": {"version": "1"}, "basics": {"name": "Old Name"}}`)
	writeFile(t, filepath.Join(profileDir, "basics.json"), `{"name": "John Smith"}`)

	doc, err := Assemble(profileDir, testSections)
	if err != nil {
		t.Fatalf("Failed to assemble: %v", err)
	}

	meta, ok := doc["meta"].(map[string]interface{})
	if !ok || meta["version"] != "1" {
		t.Errorf("Expected base document meta to survive, got %v", doc["meta"])
	}

	basics := doc["basics"].(map[string]interface{})
	if basics["name"] != "John Smith" {
		t.Errorf("Expected basics.json to override base basics, got %v", basics["name"])
	}
}

func TestAssembleEmptySectionDir(t *testing.T) {
	profileDir := t.TempDir()
	writeFile(t, filepath.Join(profileDir, "basics.json"), `{"name": "John Smith"}`)

	err := os.MkdirAll(filepath.Join(profileDir, "work"), 0750)
	if err != nil {
		t.Fatalf("Failed to create empty section dir: %v", err)
	}

	doc, err := Assemble(profileDir, testSections)
	if err != nil {
		t.Fatalf("Failed to assemble: %v", err)
	}

	if _, present := doc["work"]; present {
		t.Error("Expected empty section directory to contribute nothing")
	}
}

func TestAssembleIgnoresNonJSONFiles(t *testing.T) {
	profileDir := t.TempDir()
	writeFile(t, filepath.Join(profileDir, "basics.json"), `{"name": "John Smith"}`)
	writeFile(t, filepath.Join(profileDir, "work", "0.json"), `{"position": "a"}`)
	writeFile(t, filepath.Join(profileDir, "work", "notes.txt"), `not a fragment`)
	writeFile(t, filepath.Join(profileDir, "work", "0.json.bak"), `{"position": "stale"}`)

	doc, err := Assemble(profileDir, testSections)
	if err != nil {
		t.Fatalf("Failed to assemble: %v", err)
	}

	work := doc["work"].([]interface{})
	if len(work) != 1 {
		t.Errorf("Expected 1 work entry, got %d", len(work))
	}
}

func TestSortFragments(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{
			name:  "numeric order beats lexicographic",
			names: []string{"10.json", "2.json", "0.json"},
			want:  []string{"0.json", "2.json", "10.json"},
		},
		{
			name:  "unprefixed names sort after numeric ones",
			names: []string{"extra.json", "0.json", "also.json"},
			want:  []string{"0.json", "also.json", "extra.json"},
		},
		{
			name:  "equal prefixes break ties by filename",
			names: []string{"1-later.json", "1-early.json"},
			want:  []string{"1-early.json", "1-later.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := append([]string{}, tt.names...)
			sortFragments(names)
			if !reflect.DeepEqual(names, tt.want) {
				t.Errorf("sortFragments() = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestDiscoverProfiles(t *testing.T) {
	profilesDir := t.TempDir()

	for _, name := range []string{"consulting", "fulltime"} {
		err := os.MkdirAll(filepath.Join(profilesDir, name), 0750)
		if err != nil {
			t.Fatalf("Failed to create profile dir: %v", err)
		}
	}
	writeFile(t, filepath.Join(profilesDir, "stray.json"), `{}`)

	profiles, err := DiscoverProfiles(profilesDir)
	if err != nil {
		t.Fatalf("Failed to discover profiles: %v", err)
	}

	want := []string{"consulting", "fulltime"}
	if !reflect.DeepEqual(profiles, want) {
		t.Errorf("DiscoverProfiles() = %v, want %v", profiles, want)
	}
}

func TestDiscoverProfilesMissingRoot(t *testing.T) {
	_, err := DiscoverProfiles("/nonexistent/profiles")
	if err == nil {
		t.Error("Expected error for missing profiles directory, got nil")
	}
}

// docKeys lists the top-level keys of a document for error messages.
func docKeys(doc map[string]interface{}) (keys []string) {
	for key := range doc {
		keys = append(keys, key)
	}
	return keys
}
