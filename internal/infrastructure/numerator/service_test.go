package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "atithi/internal/core/numerator"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64 // Simulates DB sequence value
	lastIncr     int64 // Track last increment passed
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Strict passes (key); cached passes (key, increment).
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	m.lastIncr = increment

	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("TEST")
	now := time.Now()
	year := now.Format("2006")

	// 1. First call
	num, err := svc.GetNextNumber(ctx, cfg, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != fmt.Sprintf("TEST-%s-00001", year) { // mock starts at 1
		t.Errorf("expected TEST-%s-00001, got %s", year, num)
	}

	// 2. Second call
	num, err = svc.GetNextNumber(ctx, cfg, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != fmt.Sprintf("TEST-%s-00002", year) {
		t.Errorf("expected TEST-%s-00002, got %s", year, num)
	}
}

func TestGetNextNumber_DailySeries(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DailyConfig("PO")
	day := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-20260831-001" {
		t.Errorf("expected PO-20260831-001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-20260831-002" {
		t.Errorf("expected PO-20260831-002, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ORD")
	now := time.Now()
	year := now.Format("2006")

	opts := &corenumerator.Options{
		Strategy:  corenumerator.StrategyCached,
		RangeSize: 10,
	}

	// 1. First call - should trigger DB fetch (allocate 1..10)
	num, err := svc.GetNextNumber(ctx, cfg, opts, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != fmt.Sprintf("ORD-%s-00001", year) {
		t.Errorf("expected ORD-%s-00001, got %s", year, num)
	}

	// Check DB calls
	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}

	// 2. Second call - should be from memory, DB should NOT change
	num, err = svc.GetNextNumber(ctx, cfg, opts, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != fmt.Sprintf("ORD-%s-00002", year) {
		t.Errorf("expected ORD-%s-00002, got %s", year, num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to stay 10, got %d", q.currentValue)
	}

	// 3. Exhaust range. We used 2, need 8 more to reach 10.
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, cfg, opts, now)
	}

	// We are at 10. Next should trigger DB: adds 10 -> 20, next=11.
	num, err = svc.GetNextNumber(ctx, cfg, opts, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != fmt.Sprintf("ORD-%s-00011", year) {
		t.Errorf("expected ORD-%s-00011, got %s", year, num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
}
