package domain

import (
	"fmt"
	"sort"
)

// Manufacturer describes one external manufacturer a case can be forwarded to.
type Manufacturer struct {
	// ID is the stable registry key referenced by cases.
	ID string `json:"id" validate:"required"`

	// Name is the display name recorded on each case at creation.
	Name string `json:"name" validate:"required"`

	// Email is the address reminder notifications are sent to.
	Email string `json:"email" validate:"required,email"`

	// APIURL is the channel endpoint for manufacturers reached over HTTP.
	APIURL string `json:"api_url,omitempty"`
}

// ManufacturerRegistry is an immutable lookup of known manufacturers.
// Built once at startup from configuration; reads are safe for concurrent use.
type ManufacturerRegistry struct {
	byID map[string]Manufacturer
}

// NewManufacturerRegistry builds a registry from the given manufacturers.
// Duplicate IDs and invalid entries are rejected.
func NewManufacturerRegistry(manufacturers []Manufacturer) (*ManufacturerRegistry, error) {
	byID := make(map[string]Manufacturer, len(manufacturers))
	for _, m := range manufacturers {
		if err := validate.Struct(&m); err != nil {
			return nil, fmt.Errorf("%w: manufacturer %q: %w", ErrValidation, m.ID, err)
		}
		if _, exists := byID[m.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate manufacturer id %q", ErrValidation, m.ID)
		}
		byID[m.ID] = m
	}
	return &ManufacturerRegistry{byID: byID}, nil
}

// Get returns the manufacturer for the given ID.
// Returns ErrUnknownManufacturer when the ID is not registered.
func (r *ManufacturerRegistry) Get(id string) (Manufacturer, error) {
	m, ok := r.byID[id]
	if !ok {
		return Manufacturer{}, fmt.Errorf("%w: %q", ErrUnknownManufacturer, id)
	}
	return m, nil
}

// List returns all registered manufacturers ordered by ID.
func (r *ManufacturerRegistry) List() []Manufacturer {
	out := make([]Manufacturer, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultManufacturers returns the built-in registry entries used when
// configuration provides none.
func DefaultManufacturers() []Manufacturer {
	return []Manufacturer{
		{ID: "manufacturer_1", Name: "Tech Solutions Inc.", Email: "support@techsolutions.com", APIURL: "https://api.techsolutions.com"},
		{ID: "manufacturer_2", Name: "Global Parts Ltd.", Email: "support@globalparts.com", APIURL: "https://api.globalparts.com"},
		{ID: "manufacturer_3", Name: "Innovation Corp.", Email: "support@innovation.com", APIURL: "https://api.innovation.com"},
	}
}
