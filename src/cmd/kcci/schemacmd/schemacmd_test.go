package schemacmd

import (
	"bytes"
	"encoding/json"
	"testing"
)

func runSchema(t *testing.T, args ...string) map[string]any {
	t.Helper()
	cmd := New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(append([]string{}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("schema output is not JSON: %v\n%s", err, buf.String())
	}
	return doc
}

func TestSchema_Record(t *testing.T) {
	doc := runSchema(t)
	if doc["type"] != "object" || doc["$id"] != SchemaID {
		t.Fatalf("unexpected schema header: %v", doc)
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("no properties: %v", doc)
	}
	for _, k := range []string{"title", "authors", "year", "doi", "url"} {
		if _, ok := props[k]; !ok {
			t.Fatalf("missing property %s", k)
		}
	}
	req, _ := doc["required"].([]any)
	if len(req) != 2 || req[0] != "title" || req[1] != "authors" {
		t.Fatalf("required = %v, want [title authors]", req)
	}
}

func TestSchema_Array(t *testing.T) {
	doc := runSchema(t, "--array")
	if doc["type"] != "array" {
		t.Fatalf("type = %v, want array", doc["type"])
	}
	items, ok := doc["items"].(map[string]any)
	if !ok || items["type"] != "object" {
		t.Fatalf("items = %v", doc["items"])
	}
	if _, ok := items["$schema"]; ok {
		t.Fatalf("nested $schema should be dropped")
	}
}
