// Package model defines shared request types and the error taxonomy.
package model

// SearchRequest is a bound search call. Query is never absent; an empty
// string is a valid search.
type SearchRequest struct {
	Query  string
	Params map[string]string
}

// ProductRequest is a bound product lookup. Fragment is the site-relative
// product path, appended to the configured base origin.
type ProductRequest struct {
	Fragment string
	Params   map[string]string
}
