//-------------------------------------------------------------------------
//
// starschema - Star Schema Receipt Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package star implements the retail star schema: two fact tables
// (receipts and their positions) around product, time and location
// dimensions, plus generation, rendering and verification on top of it.
package star

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PricingMode selects where a line item's unit price comes from.
type PricingMode string

const (
	// PricingCatalog prices every product once; line items copy the product price.
	PricingCatalog PricingMode = "catalog"

	// PricingLine leaves products unpriced and samples a price per line item.
	PricingLine PricingMode = "line"
)

// ParsePricingMode validates a pricing mode name.
func ParsePricingMode(s string) (PricingMode, error) {
	switch m := PricingMode(s); m {
	case PricingCatalog, PricingLine:
		return m, nil
	default:
		return "", fmt.Errorf("unknown pricing mode: %q", s)
	}
}

// Product is a row of dim_product.
type Product struct {
	ID        int32
	Name      string
	UnitPrice decimal.NullDecimal
}

// TimeBucket is a row of dim_time.
type TimeBucket struct {
	ID       int32
	Datetime time.Time
	Year     int
	Month    int
	Day      int
	Hour     int
	Minute   int
}

// Location is a row of dim_location.
type Location struct {
	ID        int32
	StoreName string
	Address   string
	Phone     string
}

// Totals holds the money columns of a receipt.
type Totals struct {
	Total  decimal.Decimal
	Tax    decimal.Decimal
	Cash   decimal.Decimal
	Change decimal.Decimal
}

// Due is the amount the customer owes: total plus tax.
func (t Totals) Due() decimal.Decimal {
	return t.Total.Add(t.Tax)
}

// Receipt is a row of fact_receipt.
type Receipt struct {
	ID                int32
	TimeID            int32
	LocationID        int32
	ReceiptNumber     string
	TransactionNumber string
	CashierName       string
	Totals            Totals
}

// LineItem is a row of fact_receipt_position.
type LineItem struct {
	ID         int32
	ReceiptID  int32
	ProductID  int32
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}
