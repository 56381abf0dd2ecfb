package entity

import "time"

// QueryStatus is where a watched query is in its lifecycle.
type QueryStatus string

const (
	QueryStatusUninitialized QueryStatus = "uninitialized"
	QueryStatusLoading       QueryStatus = "loading"
	QueryStatusSuccess       QueryStatus = "success"
	QueryStatusError         QueryStatus = "error"
)

// ProductListState is one observed state of a watched product list.
// Products keeps the previous result while a refetch is loading.
type ProductListState struct {
	Status    QueryStatus `json:"status"`
	Products  []*Product  `json:"products,omitempty"`
	Error     string      `json:"error,omitempty"`
	Stale     bool        `json:"stale"`
	FetchedAt *time.Time  `json:"fetched_at,omitempty"`
}
