package output

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	for _, s := range []string{"yaml", "json"} {
		if _, err := Parse(s); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := Parse("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestMarshal(t *testing.T) {
	v := map[string]int{"nodes": 3}

	data, err := Marshal(v, JSON)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"nodes": 3`) {
		t.Errorf("json output = %q", data)
	}

	data, err = Marshal(v, YAML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "nodes: 3") {
		t.Errorf("yaml output = %q", data)
	}
}
