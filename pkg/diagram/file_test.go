package diagram

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sceneforge/sceneforge/pkg/scene"
)

func TestRequestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")

	req := &Request{
		Kind: scene.FamilyResolution,
		Resolution: &ResolutionParams{
			Domain:      "api.internal.dev",
			RecordTypes: []string{"A", "AAAA"},
		},
	}
	if err := WriteRequestFile(req, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadRequestFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Kind != scene.FamilyResolution {
		t.Errorf("kind = %q", got.Kind)
	}
	if got.Resolution.Domain != "api.internal.dev" {
		t.Errorf("domain = %q", got.Resolution.Domain)
	}
	if len(got.Resolution.RecordTypes) != 2 {
		t.Errorf("record types = %v", got.Resolution.RecordTypes)
	}
}

func TestReadRequestFileParsesJSON(t *testing.T) {
	// YAML is a JSON superset, so API payloads double as request files.
	path := filepath.Join(t.TempDir(), "request.json")
	body := `{"kind": "protocol_exchange", "protocol": {"title": "Login Flow"}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRequestFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Protocol.Title != "Login Flow" {
		t.Errorf("title = %q", got.Protocol.Title)
	}
	if len(got.Protocol.Steps) == 0 {
		t.Error("defaults not applied on read")
	}
}

func TestReadRequestFileMissing(t *testing.T) {
	if _, err := ReadRequestFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadRequestFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("kind: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRequestFile(path); err == nil {
		t.Fatal("expected decode error")
	}
}
