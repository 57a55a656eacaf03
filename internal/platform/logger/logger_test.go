package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"db_password", "hunter2",
		"customer_id", "cust-1",
		"status", "PENDING",
		"metadata", map[string]interface{}{"card_number": "4111", "channel": "web"},
		"dangling",
	})
	if len(out) != 9 {
		t.Fatalf("len: want=9 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("password: want=[REDACTED] got=%v", out[1])
	}
	if s, _ := out[3].(string); !strings.HasPrefix(s, "hash:") || strings.Contains(s, "cust-1") {
		t.Fatalf("customer_id should be hashed, got %v", out[3])
	}
	if out[5] != "PENDING" {
		t.Fatalf("status: want=PENDING got=%v", out[5])
	}
	md := out[7].(map[string]interface{})
	if md["card_number"] != "[REDACTED]" || md["channel"] != "web" {
		t.Fatalf("nested map not sanitized: %v", md)
	}
	if out[8] != "dangling" {
		t.Fatalf("odd trailing key should be kept, got %v", out[8])
	}
}

func TestHashIsStable(t *testing.T) {
	if hashValue("c1") != hashValue("c1") {
		t.Fatalf("hash should be deterministic")
	}
	if hashValue("c1") == hashValue("c2") {
		t.Fatalf("different inputs should hash differently")
	}
	if hashValue("") != "" {
		t.Fatalf("empty input should stay empty")
	}
}

func TestNopLogger(t *testing.T) {
	log := Nop().With("service", "test")
	log.Info("discarded", "k", "v")
	log.Sync()
}
