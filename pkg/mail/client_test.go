package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/graamkart/graamkart-backend/pkg/config"
)

func TestNewWithoutAPIKey(t *testing.T) {
	c := New(config.SendgridConfig{})
	if c != nil {
		t.Fatal("expected nil client without api key")
	}
	if c.Enabled() {
		t.Fatal("nil client should be disabled")
	}
	if err := c.Send(context.Background(), "a@example.com", "hi", "body"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestSendValidation(t *testing.T) {
	c := New(config.SendgridConfig{APIKey: "SG.test", DefaultFrom: "no-reply@graamkart.in", FromName: "GraamKart"})
	if !c.Enabled() {
		t.Fatal("expected enabled client")
	}
	if err := c.Send(context.Background(), "", "hi", "body"); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}
