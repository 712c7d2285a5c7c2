package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	if meta := MetadataFor(CodeValidation); meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeDependency); !meta.Retryable {
		t.Fatal("dependency errors should be retryable")
	}
	if meta := MetadataFor(Code("SOMETHING_ELSE")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "upstream call")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if typed := As(err); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("unexpected typed error: %v", typed)
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	inner := stdErrors.New("inner")
	outer := Wrap(CodeInternal, inner, "outer")

	chain := Chain(outer)
	if len(chain) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(chain), chain)
	}
	if chain[1] != "inner" {
		t.Fatalf("expected inner last, got %q", chain[1])
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"field": "is required"})
	if err.Details() == nil {
		t.Fatal("expected details to be set")
	}
}
