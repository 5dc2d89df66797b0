package app

import (
	"strconv"
	"strings"

	"github.com/llSiddharthll/Leads-Generator/internal/domain"
)

/********** tiny helpers **********/

// tagStr returns the first non-empty string value among the given tag keys.
func tagStr(tags map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := tags[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// elemFloat reads a numeric field that upstream may deliver as a JSON number
// or a string.
func elemFloat(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		f := v
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}

// contactTagKeys mark an unnamed element as still worth extracting.
var contactTagKeys = []string{
	"contact:phone", "phone", "contact:website", "website",
	"addr:street", "addr:city",
}

/********** element mapper **********/

// ExtractBusiness maps one raw Overpass element to a candidate Business.
// It returns nil for elements that carry neither identity nor contact data,
// and for elements whose name and brand both normalize to empty.
func ExtractBusiness(el map[string]any, fallbackCategory, defaultCC string) *domain.Business {
	tags, _ := el["tags"].(map[string]any)

	if tagStr(tags, "name", "brand", "operator") == "" && tagStr(tags, contactTagKeys...) == "" {
		return nil
	}

	b := domain.Business{
		Name:         CleanBusinessName(tagStr(tags, "name", "brand", "operator")),
		Category:     tagStr(tags, "amenity", "shop", "tourism"),
		Brand:        CleanBusinessName(tagStr(tags, "brand")),
		OpeningHours: tagStr(tags, "opening_hours"),
	}
	if b.Category == "" {
		b.Category = fallbackCategory
	}
	if b.Name == "" && b.Brand == "" {
		return nil
	}

	contact := map[string]string{}
	if phone := NormalizePhone(tagStr(tags, "contact:phone", "phone"), defaultCC); phone != "" {
		contact["phone"] = phone
	}
	if website := NormalizeWebsite(tagStr(tags, "contact:website", "website")); website != "" {
		contact["website"] = website
	}
	if email := tagStr(tags, "contact:email", "email"); email != "" {
		contact["email"] = email
	}
	if fb := tagStr(tags, "contact:facebook"); fb != "" {
		contact["facebook"] = fb
	}
	if ig := tagStr(tags, "contact:instagram"); ig != "" {
		contact["instagram"] = ig
	}
	if len(contact) > 0 {
		b.Contact = contact
	}

	address := map[string]string{}
	if street := tagStr(tags, "addr:street"); street != "" {
		address["street"] = street
	}
	if city := tagStr(tags, "addr:city", "addr:suburb", "addr:town"); city != "" {
		address["city"] = city
	}
	if postcode := tagStr(tags, "addr:postcode"); postcode != "" {
		address["postcode"] = postcode
	}
	if full := tagStr(tags, "addr:full"); full != "" {
		address["full"] = full
	}
	if len(address) > 0 {
		b.Address = address
	}

	// Nodes carry lat/lon directly; ways and relations only expose the
	// computed center point.
	b.Latitude = elemFloat(el, "lat")
	b.Longitude = elemFloat(el, "lon")
	if center, ok := el["center"].(map[string]any); ok {
		if b.Latitude == nil {
			b.Latitude = elemFloat(center, "lat")
		}
		if b.Longitude == nil {
			b.Longitude = elemFloat(center, "lon")
		}
	}

	kind, _ := el["type"].(string)
	id := "unknown"
	switch v := el["id"].(type) {
	case float64:
		id = strconv.FormatInt(int64(v), 10)
	case string:
		if v != "" {
			id = v
		}
	}
	b.SourceID = kind + "_" + id

	return &b
}
