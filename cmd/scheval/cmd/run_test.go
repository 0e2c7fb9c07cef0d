package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

// TestWriteDumpFile_StampsSchemaAndPrettyPrints checks writeDumpFile's
// sjson schema stamp and tidwall/pretty formatting by reading the
// written file back with gjson, rather than re-parsing it with
// encoding/json — the same tidwall trio go-snaps pulls in as an
// indirect dependency, exercised here directly for the --dump-ir/
// --dump-trace output path.
func TestWriteDumpFile_StampsSchemaAndPrettyPrints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	payload := map[string]any{"forms": []map[string]any{{"kind": "Constant"}}}

	if err := writeDumpFile(path, "ir-dump/v1", payload); err != nil {
		t.Fatalf("writeDumpFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if !strings.Contains(string(data), "\n") {
		t.Error("writeDumpFile() output has no newlines, want pretty-printed JSON")
	}
	result := gjson.GetBytes(data, "schema")
	if result.String() != "ir-dump/v1" {
		t.Errorf("schema = %q, want ir-dump/v1", result.String())
	}
	kind := gjson.GetBytes(data, "forms.0.kind")
	if kind.String() != "Constant" {
		t.Errorf("forms.0.kind = %q, want Constant", kind.String())
	}
}
