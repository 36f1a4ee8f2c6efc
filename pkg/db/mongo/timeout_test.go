package mongo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithTimeout_AddsDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > time.Second {
		t.Errorf("deadline too far in the future: %v", time.Until(deadline))
	}
}

func TestWithTimeout_KeepsEarlierDeadline(t *testing.T) {
	parent, cancelParent := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelParent()
	want, _ := parent.Deadline()

	ctx, cancel := WithTimeout(parent, time.Hour)
	defer cancel()

	got, _ := ctx.Deadline()
	if !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if IsDuplicateKey(errors.New("boom")) {
		t.Error("plain error is not a duplicate key error")
	}
}
