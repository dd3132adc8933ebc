// File: internal/listing/filters.go
package listing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/google/uuid"
)

// Filters is the set of optional narrowing criteria accepted by the list
// facades as a JSON object in the "filters" query parameter.
type Filters struct {
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	ListingType *string  `json:"listing_type,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Category    *string  `json:"category,omitempty"`

	// categoryID holds Category after the service has resolved the
	// id-or-slug value against the category store.
	categoryID *uuid.UUID
}

var validConditions = map[string]struct{}{
	string(ConditionNew):         {},
	string(ConditionUsed):        {},
	string(ConditionRefurbished): {},
}

var validListingTypes = map[string]struct{}{
	string(TypeForSale): {},
	string(TypeForRent): {},
	string(TypeService): {},
	string(TypeJob):     {},
}

// ParseFilters decodes the raw query-string value into a Filters struct.
// Unknown keys and malformed JSON are rejected with a validation error; an
// empty string yields a nil filter set.
func ParseFilters(raw string) (*Filters, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var f Filters
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, common.NewValidationError("Invalid filters: must be a JSON object with known keys.")
	}

	if f.MinPrice != nil && *f.MinPrice < 0 {
		return nil, common.NewValidationError("Invalid filters: min_price cannot be negative.")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return nil, common.NewValidationError("Invalid filters: max_price cannot be negative.")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, common.NewValidationError("Invalid filters: min_price cannot exceed max_price.")
	}
	if f.Condition != nil {
		if _, ok := validConditions[*f.Condition]; !ok {
			return nil, common.NewValidationError(fmt.Sprintf("Invalid filters: unknown condition %q.", *f.Condition))
		}
	}
	if f.ListingType != nil {
		if _, ok := validListingTypes[*f.ListingType]; !ok {
			return nil, common.NewValidationError(fmt.Sprintf("Invalid filters: unknown listing_type %q.", *f.ListingType))
		}
	}

	return &f, nil
}
