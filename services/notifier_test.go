package services

import (
	"fmt"
	"testing"
)

func TestNotifierDrain(t *testing.T) {
	n := NewNotifier(4)
	n.Success("saved")
	n.Error("failed")

	notifications := n.Drain()
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].Level != NotifySuccess || notifications[0].Message != "saved" {
		t.Errorf("unexpected first notification: %+v", notifications[0])
	}
	if notifications[1].Level != NotifyError {
		t.Errorf("unexpected second notification: %+v", notifications[1])
	}

	if n.Pending() != 0 {
		t.Errorf("drain should empty the buffer, %d left", n.Pending())
	}
}

func TestNotifierDropsOldestWhenFull(t *testing.T) {
	n := NewNotifier(3)
	for i := 0; i < 5; i++ {
		n.Success(fmt.Sprintf("message %d", i))
	}

	notifications := n.Drain()
	if len(notifications) != 3 {
		t.Fatalf("expected buffer capped at 3, got %d", len(notifications))
	}
	if notifications[0].Message != "message 2" {
		t.Errorf("expected oldest entries dropped, first is %q", notifications[0].Message)
	}
}

func TestNotifierDefaultCapacity(t *testing.T) {
	n := NewNotifier(0)
	if n.capacity != defaultNotifierCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultNotifierCapacity, n.capacity)
	}
}
