package fastspring

import (
	"reflect"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	in := Document{
		"subscription": map[string]any{
			"status":      "active",
			"productName": "pro-plan",
			"customer": map[string]any{
				"email":     "jo@example.com",
				"firstName": "Jo",
			},
		},
	}

	raw, err := in.XMLBytes()
	if err != nil {
		t.Fatalf("XMLBytes: %v", err)
	}

	out, err := ParseDocument(raw)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in: %#v\nout: %#v", in, out)
	}
}

func TestParseDocumentEmpty(t *testing.T) {
	if _, err := ParseDocument(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := ParseDocument([]byte("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestParseDocumentMalformed(t *testing.T) {
	if _, err := ParseDocument([]byte("<open><unclosed>")); err == nil {
		t.Fatalf("expected error for malformed XML")
	}
}

func TestXMLBytesEmpty(t *testing.T) {
	if _, err := (Document{}).XMLBytes(); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestStringAt(t *testing.T) {
	doc, err := ParseDocument([]byte(`<subscription><status>active</status><customer><email>jo@example.com</email></customer></subscription>`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if got := doc.StringAt("subscription.status"); got != "active" {
		t.Fatalf("status = %q", got)
	}
	if got := doc.StringAt("subscription.customer.email"); got != "jo@example.com" {
		t.Fatalf("email = %q", got)
	}
	if got := doc.StringAt("subscription.missing"); got != "" {
		t.Fatalf("missing path should be empty, got %q", got)
	}
	if got := doc.StringAt("subscription.customer"); got != "" {
		t.Fatalf("non-leaf path should be empty, got %q", got)
	}
}
