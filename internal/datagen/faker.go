//-------------------------------------------------------------------------
//
// starschema - Star Schema Receipt Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides data generation utilities.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

// Faker provides random value generation using gofakeit.
// All randomness of a generation run flows through one Faker so that a
// fixed seed reproduces the same data.
type Faker struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewFaker creates a new Faker with a time-based seed.
func NewFaker() *Faker {
	return NewFakerWithSeed(uint64(time.Now().UnixNano()))
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
		seed:  seed,
	}
}

// Seed returns the seed the Faker was created with.
func (f *Faker) Seed() uint64 {
	return f.seed
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Amount samples a uniform value in [min, max] and rounds it half-to-even
// to two decimal places.
func (f *Faker) Amount(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(f.Float64(min, max)).RoundBank(2)
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}
