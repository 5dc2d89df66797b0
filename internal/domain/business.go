package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Business is the canonical record produced by the extraction pipeline.
// Absent fields stay empty/nil and are omitted from JSON output.
type Business struct {
	Name         string            `json:"name,omitempty"`
	Category     string            `json:"category,omitempty"`
	Brand        string            `json:"brand,omitempty"`
	Contact      map[string]string `json:"contact,omitempty"`
	OpeningHours string            `json:"opening_hours,omitempty"`
	Address      map[string]string `json:"address,omitempty"`
	Latitude     *float64          `json:"latitude,omitempty"`
	Longitude    *float64          `json:"longitude,omitempty"`
	SourceID     string            `json:"source_id,omitempty"`
}

// genericNames are placeholder values contributors leave in the name tag.
// A record whose name matches one of these carries no real identity.
var genericNames = map[string]struct{}{
	"unknown": {}, "none": {}, "null": {}, "": {}, "na": {}, "n/a": {},
	"未命名": {}, "無名": {},
	"restaurant": {}, "cafe": {}, "shop": {}, "store": {}, "business": {}, "company": {},
}

// IsValid reports whether the record carries enough identity to be worth
// returning. The name check runs even when only a brand is set, so a
// brand-only record with no name is rejected here.
func (b Business) IsValid() bool {
	if b.Name == "" && b.Brand == "" {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(b.Name))
	if _, generic := genericNames[name]; generic {
		return false
	}
	return utf8.RuneCountInString(name) > 2
}

// HashID digests the normalized key fields into a stable identity hash.
// Address components participate only when an address is present, and the
// pipe delimiter cannot occur inside any normalized field.
func (b Business) HashID() string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(b.Name)),
		strings.ToLower(strings.TrimSpace(b.Category)),
		strings.ToLower(strings.TrimSpace(b.Brand)),
	}
	if b.Address != nil {
		for _, k := range []string{"street", "city", "postcode"} {
			parts = append(parts, strings.ToLower(strings.TrimSpace(b.Address[k])))
		}
	}
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
