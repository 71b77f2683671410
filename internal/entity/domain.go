package entity

import (
	"errors"
	"strings"
)

// ErrUnknownDomain is returned when a path or payload names neither films nor books.
var ErrUnknownDomain = errors.New("unknown domain")

// Domain partitions records into two independent collections.
type Domain string

const (
	DomainFilm Domain = "film"
	DomainBook Domain = "book"
)

// Domains lists every domain in display order.
var Domains = []Domain{DomainFilm, DomainBook}

// ParseDomain accepts the path segment used by the HTTP routes.
func ParseDomain(s string) (Domain, error) {
	switch Domain(strings.ToLower(strings.TrimSpace(s))) {
	case DomainFilm:
		return DomainFilm, nil
	case DomainBook:
		return DomainBook, nil
	default:
		return "", ErrUnknownDomain
	}
}

// StorageKey is the fixed collection name a domain's records are persisted under.
func (d Domain) StorageKey() string {
	switch d {
	case DomainFilm:
		return "filmReviews"
	case DomainBook:
		return "bookReviews"
	default:
		return ""
	}
}

// Label is the Korean name shown next to per-domain counts.
func (d Domain) Label() string {
	switch d {
	case DomainFilm:
		return "영화"
	case DomainBook:
		return "독서"
	default:
		return string(d)
	}
}

func (d Domain) Valid() bool {
	return d == DomainFilm || d == DomainBook
}
