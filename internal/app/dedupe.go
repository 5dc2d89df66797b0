package app

import (
	"strings"

	"github.com/llSiddharthll/Leads-Generator/internal/domain"
)

// addressKey builds the normalized address portion of the combination key.
// Empty when the record has no address at all.
func addressKey(b domain.Business) string {
	if b.Address == nil {
		return ""
	}
	street := strings.ToLower(strings.TrimSpace(b.Address["street"]))
	city := strings.ToLower(strings.TrimSpace(b.Address["city"]))
	return street + "|" + city
}

// completeness counts the populated fields used to rank near-duplicates:
// name, contact, address.
func completeness(b domain.Business) int {
	n := 0
	if b.Name != "" {
		n++
	}
	if len(b.Contact) > 0 {
		n++
	}
	if len(b.Address) > 0 {
		n++
	}
	return n
}

// Deduplicate collapses candidates into a unique, valid set. Three stages per
// candidate: identity hash, name+address combination key, and an exact
// lowercased-name comparison against every accepted record where the less
// complete side loses and the earlier record wins ties.
//
// The last stage is O(n) per candidate, O(n²) overall. Result sets are tens
// to low hundreds of records, so this has not been worth an index.
func Deduplicate(candidates []domain.Business) []domain.Business {
	seenHashes := make(map[string]struct{}, len(candidates))
	seenCombos := make(map[string]struct{}, len(candidates))
	unique := make([]domain.Business, 0, len(candidates))

	for _, b := range candidates {
		if !b.IsValid() {
			continue
		}

		hash := b.HashID()
		if _, dup := seenHashes[hash]; dup {
			continue
		}

		addrKey := addressKey(b)
		combo := strings.ToLower(strings.TrimSpace(b.Name)) + "|" + addrKey
		if _, dup := seenCombos[combo]; dup && addrKey != "" {
			continue
		}

		name := strings.ToLower(b.Name)
		dup := false
		for _, existing := range unique {
			existingName := strings.ToLower(existing.Name)
			if name == "" || existingName != name {
				continue
			}
			if completeness(b) <= completeness(existing) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		seenHashes[hash] = struct{}{}
		seenCombos[combo] = struct{}{}
		unique = append(unique, b)
	}
	return unique
}
