package star

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/datagen"
)

// Price bounds for sampled unit prices.
const (
	PriceMin = 1.0
	PriceMax = 20.0
)

// ProductNames is the fixed product catalog.
var ProductNames = []string{
	"Apple", "Banana", "Orange", "Milk", "Bread", "Cheese", "Eggs", "Cereal", "Coffee", "Tea",
	"Chicken", "Beef", "Fish", "Rice", "Pasta", "Tomato", "Potato", "Onion", "Carrot", "Lettuce",
}

// Epoch is the first hour covered by the time dimension.
var Epoch = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// BuildProducts returns one product per catalog name. Under catalog pricing
// each product gets a unit price in [PriceMin, PriceMax].
func BuildProducts(f *datagen.Faker, mode PricingMode) []Product {
	products := make([]Product, len(ProductNames))
	for i, name := range ProductNames {
		products[i] = Product{Name: name}
		if mode == PricingCatalog {
			products[i].UnitPrice = decimal.NewNullDecimal(f.Amount(PriceMin, PriceMax))
		}
	}
	return products
}

// BuildTimeBuckets returns hours consecutive hourly buckets starting at epoch.
func BuildTimeBuckets(epoch time.Time, hours int) []TimeBucket {
	start := epoch.Truncate(time.Second)
	buckets := make([]TimeBucket, hours)
	for i := range buckets {
		t := start.Add(time.Duration(i) * time.Hour)
		buckets[i] = TimeBucket{
			Datetime: t,
			Year:     t.Year(),
			Month:    int(t.Month()),
			Day:      t.Day(),
			Hour:     t.Hour(),
			Minute:   0,
		}
	}
	return buckets
}

// BuildLocations returns n stores indexed from 1.
func BuildLocations(n int) []Location {
	locations := make([]Location, n)
	for i := range locations {
		idx := i + 1
		locations[i] = Location{
			StoreName: fmt.Sprintf("Store %d", idx),
			Address:   fmt.Sprintf("%d00 Main St", idx),
			Phone:     fmt.Sprintf("555-%d", 1000+idx),
		}
	}
	return locations
}
