package publishers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writePublishersFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}
	return path
}

func TestLoadRegistrySanitizesAndDefaults(t *testing.T) {
	path := writePublishersFile(t, "publishers.yaml", `
publishers:
  - id: hook
    type: HTTP
    http:
      url: " https://example.com/sink "
      method: post
  - id: queue
    type: sqs
    enabled: false
    sqs:
      uri: https://sqs.example.com/q
      region: us-east-1
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("All() = %d entries", len(all))
	}

	hook := all[0]
	if hook.Type != TypeHTTP {
		t.Fatalf("type not lowercased: %q", hook.Type)
	}
	if hook.HTTP.URL != "https://example.com/sink" {
		t.Fatalf("url not trimmed: %q", hook.HTTP.URL)
	}
	if hook.HTTP.Method != "POST" {
		t.Fatalf("method not normalized: %q", hook.HTTP.Method)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("timeout default not applied: %d", hook.HTTP.TimeoutSeconds)
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "hook" {
		t.Fatalf("Enabled() = %#v", enabled)
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "no entries", content: "publishers: []"},
		{name: "missing id", content: "publishers:\n  - type: log\n"},
		{name: "missing type", content: "publishers:\n  - id: a\n"},
		{name: "sqs without uri", content: "publishers:\n  - id: a\n    type: sqs\n    sqs:\n      region: us-east-1\n"},
		{name: "sns without topic", content: "publishers:\n  - id: a\n    type: sns\n    sns:\n      region: us-east-1\n"},
		{name: "gcppubsub without topic", content: "publishers:\n  - id: a\n    type: gcppubsub\n    gcppubsub:\n      project_id: p\n"},
		{name: "http without url", content: "publishers:\n  - id: a\n    type: http\n    http:\n      method: POST\n"},
		{name: "duplicate id", content: "publishers:\n  - id: a\n    type: log\n  - id: a\n    type: log\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writePublishersFile(t, "publishers.yaml", tc.content)
			if _, err := LoadRegistry(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDefaultRegistryBuildsLogPublisher(t *testing.T) {
	reg := DefaultRegistry()
	pub, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "console", Type: TypeLog}, nil)
	if err != nil {
		t.Fatalf("PublisherFor: %v", err)
	}
	if pub.Type() != TypeLog || pub.ID() != "console" {
		t.Fatalf("publisher = %s/%s", pub.Type(), pub.ID())
	}
	if err := pub.Publish(context.Background(), Event{SubscriptionRef: "SUB-1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestRegistryUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	if _, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "x", Type: "kafka"}, nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestBuildAll(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "a", Type: TypeLog},
		{ID: "b", Type: TypeLog},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 2 {
		t.Fatalf("BuildAll built %d publishers", len(pubs))
	}

	if pubs, err := BuildAll(context.Background(), nil, nil, nil); err != nil || pubs != nil {
		t.Fatalf("BuildAll with nil registry: %v %v", pubs, err)
	}
}
