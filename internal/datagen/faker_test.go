//-------------------------------------------------------------------------
//
// starschema - Star Schema Receipt Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	if f1.Seed() != seed {
		t.Errorf("Seed() = %d, want %d", f1.Seed(), seed)
	}

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
	for i := 0; i < 10; i++ {
		a1 := f1.Amount(1, 20)
		a2 := f2.Amount(1, 20)
		if !a1.Equal(a2) {
			t.Errorf("Same seed produced different amounts: %s != %s", a1, a2)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFakerWithSeed(1)
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := f.Int(1, 3)
		if v < 1 || v > 3 {
			t.Fatalf("Int(1, 3) returned %d", v)
		}
		seen[v] = true
	}
	// Both bounds are inclusive
	for _, want := range []int{1, 2, 3} {
		if !seen[want] {
			t.Errorf("Int(1, 3) never returned %d in 500 draws", want)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(0, 5)
		if v < 0 || v > 5 {
			t.Fatalf("Float64(0, 5) returned %f", v)
		}
	}
}

func TestFakerAmount(t *testing.T) {
	f := NewFakerWithSeed(99)
	lo := decimal.NewFromInt(1)
	hi := decimal.NewFromInt(20)
	for i := 0; i < 200; i++ {
		a := f.Amount(1, 20)
		if a.LessThan(lo) || a.GreaterThan(hi) {
			t.Fatalf("Amount %s not in range [1, 20]", a)
		}
		if a.Exponent() < -2 {
			t.Fatalf("Amount %s has more than two fractional digits", a)
		}
		if !a.Equal(a.Round(2)) {
			t.Fatalf("Amount %s is not rounded to cents", a)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}
	for i := 0; i < 20; i++ {
		got := Choose(f, items)
		if got != "a" && got != "b" && got != "c" {
			t.Fatalf("Choose returned unexpected value %q", got)
		}
	}

	if got := Choose(f, []int{}); got != 0 {
		t.Errorf("Choose on empty slice = %d, want zero value", got)
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("fact_receipt", 1000, 100)
	for i := 0; i < 10; i++ {
		p.Update(50)
	}
	if p.Rows() != 500 {
		t.Errorf("Rows() = %d, want 500", p.Rows())
	}
	p.Done()

	// A zero interval must not divide by zero
	z := NewProgressReporter("dim_time", 10, 0)
	z.Update(3)
	if z.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", z.Rows())
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.00 seconds"},
		{1500 * time.Millisecond, "1.50 seconds"},
		{2*time.Second + 4*time.Millisecond, "2.00 seconds"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.d); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
