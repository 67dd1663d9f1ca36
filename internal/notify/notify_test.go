// ABOUTME: Tests for the notification recorder
// ABOUTME: Verifies ordering, draining, and concurrent safety

package notify

import (
	"fmt"
	"sync"
	"testing"
)

func TestRecorder_RecordsInOrder(t *testing.T) {
	r := NewRecorder()
	r.Notify(LevelInfo, "first")
	r.Notify(LevelError, "second")

	messages := r.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "first" || messages[1].Text != "second" {
		t.Errorf("unexpected order: %v", messages)
	}
	if messages[1].Level != LevelError {
		t.Errorf("expected error level, got %v", messages[1].Level)
	}
}

func TestRecorder_MessagesReturnsCopy(t *testing.T) {
	r := NewRecorder()
	r.Notify(LevelInfo, "original")

	snapshot := r.Messages()
	snapshot[0].Text = "mutated"

	if r.Messages()[0].Text != "original" {
		t.Error("expected Messages to return an independent copy")
	}
}

func TestRecorder_Drain(t *testing.T) {
	r := NewRecorder()
	r.Notify(LevelWarn, "pending")

	drained := r.Drain()
	if len(drained) != 1 || drained[0].Text != "pending" {
		t.Errorf("unexpected drain result: %v", drained)
	}
	if len(r.Messages()) != 0 {
		t.Error("expected recorder empty after drain")
	}
}

func TestRecorder_ConcurrentNotify(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Notify(LevelInfo, fmt.Sprintf("msg-%d", i))
		}(i)
	}
	wg.Wait()

	if got := len(r.Messages()); got != 20 {
		t.Errorf("expected 20 messages, got %d", got)
	}
}

func TestLevel_String(t *testing.T) {
	if LevelInfo.String() != "info" || LevelWarn.String() != "warn" || LevelError.String() != "error" {
		t.Error("unexpected level strings")
	}
}
