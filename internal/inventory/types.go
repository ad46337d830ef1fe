package inventory

import (
	"maps"
	"slices"
)

// Status is the availability tag a store reports for a product.
// It is an opaque label; values outside the known set are kept verbatim.
type Status string

const (
	InStock Status = "販売中"
	SoldOut Status = "SOLD OUT"
	PreSale Status = "販売前"
)

var knownStatuses = []Status{InStock, SoldOut, PreSale}

// Known reports whether s is one of the statuses the dashboard styles explicitly.
func (s Status) Known() bool {
	return slices.Contains(knownStatuses, s)
}

// KnownStatuses returns the recognized status tags in display order.
func KnownStatuses() []Status {
	return slices.Clone(knownStatuses)
}

// Snapshot mirrors the remote inventory document.
type Snapshot struct {
	Products    []string `json:"products"`
	Stores      []Store  `json:"stores"`
	LastUpdated string   `json:"lastUpdated"`
}

// Store is one retail location and its per-product status.
type Store struct {
	Name   string            `json:"name"`
	Status map[string]Status `json:"status"`
}

// StatusOf returns the status recorded for product. The second value is false
// when the store does not list the product at all.
func (s Store) StatusOf(product string) (Status, bool) {
	st, ok := s.Status[product]
	return st, ok
}

// Clone returns a deep copy so callers can hold the value independently of
// whoever produced it.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Products:    slices.Clone(s.Products),
		LastUpdated: s.LastUpdated,
	}
	if s.Stores != nil {
		out.Stores = make([]Store, len(s.Stores))
		for i, st := range s.Stores {
			out.Stores[i] = Store{Name: st.Name, Status: maps.Clone(st.Status)}
		}
	}
	return out
}

// Equal reports whether two snapshots carry the same products, stores and label.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.LastUpdated != other.LastUpdated {
		return false
	}
	if !slices.Equal(s.Products, other.Products) {
		return false
	}
	return slices.EqualFunc(s.Stores, other.Stores, func(a, b Store) bool {
		return a.Name == b.Name && maps.Equal(a.Status, b.Status)
	})
}

// StatusCounts tallies statuses across every store for the given product.
func (s Snapshot) StatusCounts(product string) map[Status]int {
	counts := make(map[Status]int)
	for _, st := range s.Stores {
		if status, ok := st.StatusOf(product); ok {
			counts[status]++
		}
	}
	return counts
}
