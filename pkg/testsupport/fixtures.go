package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// Fixture returns the contents of testdata/<name> for the calling package.
func Fixture(tb testing.TB, name string) []byte {
	tb.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		tb.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// Golden decodes testdata/<name> into v. Files ending in .yaml or .yml are
// read as YAML, everything else as JSON.
func Golden(tb testing.TB, name string, v any) {
	tb.Helper()
	data := Fixture(tb, name)

	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		tb.Fatalf("decode golden %s: %v", name, err)
	}
}
