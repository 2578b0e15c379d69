package app

import (
	"strings"
	"testing"
)

func TestRewriteIdentity(t *testing.T) {
	desc, err := ParseDescriptor(web01XML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	fresh, err := RewriteIdentity(desc, "web01-clone")
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	if fresh.Name() != "web01-clone" {
		t.Errorf("name: got %q", fresh.Name())
	}
	if fresh.UUID() == desc.UUID() {
		t.Error("uuid was not regenerated")
	}
	if len(fresh.UUID()) != 36 {
		t.Errorf("uuid %q is not in canonical textual form", fresh.UUID())
	}

	xml, err := fresh.XML()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(xml, "mac address") {
		t.Error("a mac address survived the rewrite")
	}
	if !strings.Contains(xml, "interface") {
		t.Error("interfaces were removed instead of only their mac address")
	}

	// the input descriptor must be untouched
	if desc.Name() != "web01" || desc.UUID() != "0e6d4a12-77df-4be2-a6cf-60dcf4d86f88" {
		t.Error("rewrite mutated its input")
	}
}

func TestRewriteIdentityNeverReusesUUID(t *testing.T) {
	desc, _ := ParseDescriptor(web01XML)

	first, err := RewriteIdentity(desc, "clone")
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	second, err := RewriteIdentity(desc, "clone")
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	if first.UUID() == second.UUID() {
		t.Error("two rewrites produced the same uuid")
	}
	if first.Name() != second.Name() {
		t.Error("two rewrites with the same name disagree on the name")
	}
}
