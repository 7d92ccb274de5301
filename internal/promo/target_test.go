package promo

import (
	"testing"
	"time"
)

func buyerIdentity() Identity {
	return Identity{
		Organization: "ORG1",
		Divisions: []Division{
			{
				Code:            "dry",
				SalesOrg:        "SO01",
				DistChannel:     "DC10",
				SalesOffice:     "OFF7",
				SalesGroup:      "SG2",
				Group:           "G1",
				BuyerExternalID: "BUYER-9",
				Hierarchy:       "H-ROOT",
			},
		},
	}
}

func openScope() Scope {
	return Scope{
		Organization: Wildcard,
		SalesOrg:     Wildcard,
		DistChannel:  Wildcard,
		SalesOffice:  Wildcard,
		SalesGroup:   Wildcard,
		Group:        Wildcard,
		Hierarchy:    Wildcard,
		PeriodFrom:   time.Now().Add(-time.Hour),
		PeriodTo:     time.Now().Add(time.Hour),
	}
}

func TestMatchScopeWildcards(t *testing.T) {
	if !MatchScope(openScope(), buyerIdentity(), time.Now()) {
		t.Fatal("wildcard scope must match")
	}
}

func TestMatchScopeExactAndPrefixed(t *testing.T) {
	s := openScope()
	s.SalesOffice = "OFF7"
	if !MatchScope(s, buyerIdentity(), time.Now()) {
		t.Fatal("exact sales office must match")
	}
	s.SalesOffice = "dry-OFF7"
	if !MatchScope(s, buyerIdentity(), time.Now()) {
		t.Fatal("division-prefixed wildcard must match")
	}
	s.SalesOffice = "frozen-OFF7"
	if MatchScope(s, buyerIdentity(), time.Now()) {
		t.Fatal("prefix for an inactive division must not match")
	}
}

func TestMatchScopeValidityWindow(t *testing.T) {
	s := openScope()
	s.PeriodFrom = time.Now().Add(time.Hour)
	if MatchScope(s, buyerIdentity(), time.Now()) {
		t.Fatal("scope outside validity window must not match")
	}
}

func TestMatchScopeDestinationCodes(t *testing.T) {
	s := openScope()
	s.SalesOffice = "OTHER" // destination codes override attribute scoping
	s.DestinationCodes = []DestinationCode{
		{Code: "DST1", SalesOffices: []string{"OFF7", "OFF8"}},
	}
	if !MatchScope(s, buyerIdentity(), time.Now()) {
		t.Fatal("intersecting destination code must match")
	}
	s.DestinationCodes[0].ExcludedExternalIDs = []string{"BUYER-9"}
	if MatchScope(s, buyerIdentity(), time.Now()) {
		t.Fatal("excluded buyer must not match")
	}
}

func TestBestTargetLowerPriorityWins(t *testing.T) {
	rows := []TargetRow{
		{Target: Target{ItemID: "*", Tag: "minuman", Priority: 5}},
		{Target: Target{ItemID: "item-1", Tag: "*", Priority: 1}},
	}
	best, ok := BestTarget(rows)
	if !ok || best.Target.Priority != 1 {
		t.Fatalf("expected priority 1 row, got %+v", best)
	}
}

func TestTargetMatchesItem(t *testing.T) {
	tg := Target{ItemID: "*", Tag: "minuman"}
	if !tg.MatchesItem("item-1", "minuman") {
		t.Fatal("wildcard item with matching tag must match")
	}
	if tg.MatchesItem("item-1", "snack") {
		t.Fatal("mismatched tag must not match")
	}
}
