// Package catalog builds the immutable country-policy snapshot the engine
// scores against.
package catalog

import (
	"errors"
	"fmt"

	"nomad-visa-engine/internal/models"
)

// Catalog errors
var (
	ErrEmptyCatalog       = errors.New("catalog has no countries")
	ErrDuplicateCountry   = errors.New("duplicate country id")
	ErrMissingEnrichment  = errors.New("missing enrichment for country")
	ErrUnknownSource      = errors.New("unknown catalog source")
	ErrSourceNotAvailable = errors.New("catalog source not available")
)

// Catalog is a read-only snapshot of country policies built once at start-up.
// It is safe for concurrent reads.
type Catalog struct {
	countries []*models.CountryPolicy
	byID      map[string]*models.CountryPolicy
}

// New builds a catalog, rejecting empty or duplicate country ids.
func New(policies []*models.CountryPolicy) (*Catalog, error) {
	if len(policies) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		countries: make([]*models.CountryPolicy, 0, len(policies)),
		byID:      make(map[string]*models.CountryPolicy, len(policies)),
	}
	for _, p := range policies {
		if p == nil || p.CountryID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrDuplicateCountry)
		}
		if _, dup := c.byID[p.CountryID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCountry, p.CountryID)
		}
		c.byID[p.CountryID] = p
		c.countries = append(c.countries, p)
	}
	return c, nil
}

// Countries returns the policies in catalog order. Callers must not mutate them.
func (c *Catalog) Countries() []*models.CountryPolicy {
	out := make([]*models.CountryPolicy, len(c.countries))
	copy(out, c.countries)
	return out
}

// Get returns the policy with the given id.
func (c *Catalog) Get(id string) (*models.CountryPolicy, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrCountryNotFound, id)
	}
	return p, nil
}

// Len returns the number of countries.
func (c *Catalog) Len() int {
	return len(c.countries)
}

// IDs returns the country ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.countries))
	for i, p := range c.countries {
		ids[i] = p.CountryID
	}
	return ids
}
