package cdss

import (
	"context"
	"strings"
	"testing"
)

func TestGetReferenceTable_URL(t *testing.T) {
	srv, urls := captureServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))

	tests := map[string]string{
		"county":        "/referencetables/county/?",
		"climateparams": "/referencetables/climatestationmeastype/?",
		"flags":         "/referencetables/stationflags/?",
		"DivRecTypes":   "/referencetables/divrectypes/?",
	}
	for table, prefix := range tests {
		if _, err := c.GetReferenceTable(context.Background(), table); err != nil {
			t.Fatalf("GetReferenceTable(%q): %v", table, err)
		}
		if url := lastURL(t, urls); !strings.HasPrefix(url, prefix) {
			t.Errorf("table %q: got %q, want prefix %q", table, url, prefix)
		}
	}
}

func TestGetReferenceTable_InvalidName(t *testing.T) {
	c := NewClient()
	_, err := c.GetReferenceTable(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown table")
	}
	// The error lists the valid names for discoverability.
	if !strings.Contains(err.Error(), "waterdistricts") {
		t.Errorf("error %q should list valid tables", err.Error())
	}
}

func TestReferenceTableNames_CoversAllTables(t *testing.T) {
	names := ReferenceTableNames()
	if len(names) != len(referenceTables) {
		t.Fatalf("names = %d, tables = %d", len(names), len(referenceTables))
	}
	for _, n := range names {
		if _, ok := referenceTables[n]; !ok {
			t.Errorf("name %q has no table mapping", n)
		}
	}
}
