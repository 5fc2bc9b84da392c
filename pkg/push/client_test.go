package push

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "msg-id", nil
}

func TestDisabledClient(t *testing.T) {
	var c *Client
	if c.Enabled() {
		t.Fatal("nil client should be disabled")
	}
	_, err := c.SendToToken(context.Background(), "tok", "t", "b", nil)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	_, err = c.SendToTopic(context.Background(), "", "t", "b", "")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestSendToToken(t *testing.T) {
	fake := &fakeSender{}
	c := &Client{messaging: fake}

	id, err := c.SendToToken(context.Background(), "tok-1", "Order shipped", "On the way", map[string]string{"orderId": "o-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "msg-id" {
		t.Fatalf("expected provider message id, got %q", id)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fake.sent))
	}
	msg := fake.sent[0]
	if msg.Token != "tok-1" || msg.Notification.Title != "Order shipped" {
		t.Fatalf("unexpected message %+v", msg)
	}

	if _, err := c.SendToToken(context.Background(), "", "t", "b", nil); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestSendToTopicFallsBackToBroadcast(t *testing.T) {
	fake := &fakeSender{}
	c := &Client{messaging: fake, topic: "all_users"}

	id, err := c.SendToTopic(context.Background(), "", "Diwali sale", "Up to 50% off", "https://cdn.example/banner.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "msg-id" {
		t.Fatalf("expected provider message id, got %q", id)
	}
	if len(fake.sent) != 1 || fake.sent[0].Topic != "all_users" {
		t.Fatalf("expected broadcast topic, got %+v", fake.sent)
	}
	if fake.sent[0].Notification.ImageURL != "https://cdn.example/banner.png" {
		t.Fatalf("image url not carried")
	}
}
