package app_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/llSiddharthll/Leads-Generator/internal/app"
	"github.com/llSiddharthll/Leads-Generator/internal/domain"
)

func biz(name, category string, mutate ...func(*domain.Business)) domain.Business {
	b := domain.Business{Name: name, Category: category}
	for _, m := range mutate {
		m(&b)
	}
	return b
}

func withContact(b *domain.Business) {
	b.Contact = map[string]string{"phone": "+911234567890"}
}

func withAddress(b *domain.Business) {
	b.Address = map[string]string{"street": "MG Road", "city": "Pune"}
}

func TestDeduplicate_DropsInvalid(t *testing.T) {
	in := []domain.Business{
		biz("shop", "shop"),     // generic placeholder
		biz("ab", "cafe"),       // too short
		{Brand: "Nike"},         // brand-only, rejected by the name checks
		biz("Blue Door", "cafe"),
	}
	out := app.Deduplicate(in)
	if len(out) != 1 || out[0].Name != "Blue Door" {
		t.Fatalf("unexpected output: %+v", out)
	}
	for _, b := range out {
		if !b.IsValid() {
			t.Fatalf("invalid record in output: %+v", b)
		}
	}
}

func TestDeduplicate_HashStage(t *testing.T) {
	// identical key fields, second differs only in contact data
	first := biz("Central Bank", "bank", withAddress, withContact)
	second := biz("Central Bank", "bank", withAddress)

	out := app.Deduplicate([]domain.Business{first, second})
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].Contact == nil {
		t.Fatalf("first-seen record should survive")
	}

	seen := map[string]struct{}{}
	for _, b := range out {
		h := b.HashID()
		if _, dup := seen[h]; dup {
			t.Fatalf("duplicate hash in output")
		}
		seen[h] = struct{}{}
	}
}

func TestDeduplicate_CombinationKey(t *testing.T) {
	// same name and address but different category -> different hash, caught
	// by the name+address combination key
	a := biz("Corner House", "cafe", withAddress)
	b := biz("Corner House", "restaurant", withAddress)
	b.Contact = map[string]string{"phone": "+911111111111"}
	b.Address = map[string]string{"street": "MG Road", "city": "Pune", "postcode": "411001"}

	// the postcode changes the hash but not the street|city combination key
	out := app.Deduplicate([]domain.Business{a, b})
	if len(out) != 1 {
		t.Fatalf("expected combination key to collapse records, got %d", len(out))
	}
}

func TestDeduplicate_EmptyAddressNeverTriggersComboRule(t *testing.T) {
	// without addresses the combination key rule must not merge distinct
	// same-named records; they fall through to the completeness comparison
	a := biz("Green Leaf", "cafe")
	b := biz("Green Leaf", "restaurant", withContact)

	out := app.Deduplicate([]domain.Business{a, b})
	// b has a higher completeness score, so the fuzzy stage keeps it too
	if len(out) != 2 {
		t.Fatalf("expected both records, got %+v", out)
	}
}

func TestDeduplicate_CompletenessTieBreak(t *testing.T) {
	full := biz("Green Leaf", "cafe", withContact, withAddress)
	sparse := biz("Green Leaf", "restaurant")

	out := app.Deduplicate([]domain.Business{full, sparse})
	if len(out) != 1 || out[0].Category != "cafe" {
		t.Fatalf("earlier, more complete record should win: %+v", out)
	}

	// equal scores: first seen survives
	x := biz("Night Owl", "bar")
	y := biz("Night Owl", "pub")
	out = app.Deduplicate([]domain.Business{x, y})
	if len(out) != 1 || out[0].Category != "bar" {
		t.Fatalf("first-seen should win ties: %+v", out)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	in := []domain.Business{
		biz("Central Bank", "bank", withAddress, withContact),
		biz("Central Bank", "bank", withAddress),
		biz("Green Leaf", "cafe", withContact),
		biz("Green Leaf", "restaurant"),
		biz("shop", "shop"),
		biz("Blue Door", "cafe"),
	}
	once := app.Deduplicate(in)
	twice := app.Deduplicate(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("deduplicate is not idempotent (-once +twice):\n%s", diff)
	}
}
