package star

import (
	"context"
	"errors"
)

// memStore is an in-memory Store that assigns sequential ids the way
// SERIAL columns do.
type memStore struct {
	products  []Product
	times     []TimeBucket
	locations []Location
	receipts  []Receipt
	items     []LineItem

	failOn string
}

var errInjected = errors.New("injected failure")

func (s *memStore) InsertDimensions(ctx context.Context, products []Product, times []TimeBucket, locations []Location) error {
	if s.failOn == "dimensions" {
		return errInjected
	}
	for i := range products {
		products[i].ID = int32(len(s.products) + 1)
		s.products = append(s.products, products[i])
	}
	for i := range times {
		times[i].ID = int32(len(s.times) + 1)
		s.times = append(s.times, times[i])
	}
	for i := range locations {
		locations[i].ID = int32(len(s.locations) + 1)
		s.locations = append(s.locations, locations[i])
	}
	return nil
}

func (s *memStore) InsertReceipts(ctx context.Context, receipts []Receipt) error {
	if s.failOn == "receipts" {
		return errInjected
	}
	for i := range receipts {
		receipts[i].ID = int32(len(s.receipts) + 1)
		s.receipts = append(s.receipts, receipts[i])
	}
	return nil
}

func (s *memStore) NumberReceipts(ctx context.Context, receipts []Receipt) error {
	for _, r := range receipts {
		stored := &s.receipts[r.ID-1]
		stored.ReceiptNumber = r.ReceiptNumber
		stored.TransactionNumber = r.TransactionNumber
	}
	return nil
}

func (s *memStore) InsertLineItems(ctx context.Context, items []LineItem, receipts []Receipt) error {
	if s.failOn == "items" {
		return errInjected
	}
	for _, item := range items {
		item.ID = int32(len(s.items) + 1)
		s.items = append(s.items, item)
	}
	for _, r := range receipts {
		s.receipts[r.ID-1].Totals = r.Totals
	}
	return nil
}

func (s *memStore) dataset() Dataset {
	return Dataset{
		Products:  s.products,
		Times:     s.times,
		Locations: s.locations,
		Receipts:  s.receipts,
		Items:     s.items,
	}
}
