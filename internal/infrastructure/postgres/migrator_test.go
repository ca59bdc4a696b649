package postgres

import (
	"strings"
	"testing"
)

func TestSchemaScopedURL(t *testing.T) {
	got, err := schemaScopedURL("postgres://u:p@localhost:5432/ledger?sslmode=disable", "casa_sol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "search_path=casa_sol") {
		t.Fatalf("search_path not set: %s", got)
	}
	if !strings.Contains(got, "sslmode=disable") {
		t.Fatalf("existing query parameters lost: %s", got)
	}
}

func TestSchemaScopedURLInvalid(t *testing.T) {
	if _, err := schemaScopedURL("://bad-url", "casa_sol"); err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}
