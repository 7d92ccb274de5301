package promo

import (
	"strings"
	"time"
)

// Wildcard matches any value in a target or scope attribute.
const Wildcard = "*"

// Target identifies what a promotion applies to. An item id of "*" means any
// item matching the tag; a tag of "*" means the specific item regardless of
// tag. A lower Priority value is more specific and wins tie-breaks.
type Target struct {
	ItemID   string   `json:"itemId"`
	Tag      string   `json:"tag"`
	Priority int      `json:"priority"`
	Brands   []string `json:"brands,omitempty"`
}

// MatchesItem reports whether the target covers the given item id and tag.
func (t Target) MatchesItem(itemID, tag string) bool {
	if t.ItemID != Wildcard && t.ItemID != itemID {
		return false
	}
	if t.Tag != Wildcard && t.Tag != tag {
		return false
	}
	return true
}

// SameTarget reports whether two targets cover the identical (item, tag) pair.
func (t Target) SameTarget(other Target) bool {
	return t.ItemID == other.ItemID && t.Tag == other.Tag
}

// Division holds the buyer's scope values for one product division
// (dry goods or frozen goods).
type Division struct {
	Code            string
	SalesOrg        string
	DistChannel     string
	SalesOffice     string
	SalesGroup      string
	Group           string
	BuyerExternalID string
	Hierarchy       string
}

// Identity is the already-resolved buyer context the matcher runs against.
type Identity struct {
	Organization string
	Divisions    []Division
}

// DestinationCode is an override scope attached to destination-code
// promotions. Its arrays are matched by intersection against the buyer's
// non-prefixed scope values.
type DestinationCode struct {
	Code                string
	SalesOrgs           []string
	DistChannels        []string
	SalesOffices        []string
	SalesGroups         []string
	ExcludedExternalIDs []string
	ExcludedGroups      []string
}

// Scope is one promotion target row's organizational and validity scoping.
type Scope struct {
	Organization     string
	SalesOrg         string
	DistChannel      string
	SalesOffice      string
	SalesGroup       string
	Group            string
	BuyerExternalID  string
	Hierarchy        string
	DestinationCodes []DestinationCode
	PeriodFrom       time.Time
	PeriodTo         time.Time
}

// MatchScope decides whether a promotion target row applies to the buyer at
// the given instant.
func MatchScope(s Scope, id Identity, now time.Time) bool {
	if s.Organization != Wildcard && s.Organization != id.Organization {
		return false
	}
	if now.Before(s.PeriodFrom) || now.After(s.PeriodTo) {
		return false
	}
	if len(s.DestinationCodes) > 0 {
		return matchDestinationCodes(s.DestinationCodes, id)
	}
	return matchDivisionScope(s, id)
}

// matchDivisionScope requires every scoped attribute to be a wildcard, a
// division-prefixed wildcard ("dry-<value>" / "frozen-<value>"), or an exact
// match for one of the buyer's active divisions.
func matchDivisionScope(s Scope, id Identity) bool {
	checks := []struct {
		scoped string
		value  func(Division) string
	}{
		{s.SalesOrg, func(d Division) string { return d.SalesOrg }},
		{s.DistChannel, func(d Division) string { return d.DistChannel }},
		{s.SalesOffice, func(d Division) string { return d.SalesOffice }},
		{s.SalesGroup, func(d Division) string { return d.SalesGroup }},
		{s.Group, func(d Division) string { return d.Group }},
		{s.BuyerExternalID, func(d Division) string { return d.BuyerExternalID }},
		{s.Hierarchy, func(d Division) string { return d.Hierarchy }},
	}
	for _, check := range checks {
		if !matchAttribute(check.scoped, id.Divisions, check.value) {
			return false
		}
	}
	return true
}

func matchAttribute(scoped string, divisions []Division, value func(Division) string) bool {
	if scoped == "" || scoped == Wildcard {
		return true
	}
	for _, d := range divisions {
		v := value(d)
		if scoped == v {
			return true
		}
		if d.Code != "" && scoped == d.Code+"-"+v {
			return true
		}
	}
	return false
}

// matchDestinationCodes matches when at least one destination code's scope
// arrays intersect the buyer's values and the buyer is not explicitly
// excluded.
func matchDestinationCodes(codes []DestinationCode, id Identity) bool {
	for _, dc := range codes {
		if destinationExcludes(dc, id) {
			continue
		}
		if destinationMatches(dc, id) {
			return true
		}
	}
	return false
}

func destinationMatches(dc DestinationCode, id Identity) bool {
	checks := []struct {
		values []string
		value  func(Division) string
	}{
		{dc.SalesOrgs, func(d Division) string { return d.SalesOrg }},
		{dc.DistChannels, func(d Division) string { return d.DistChannel }},
		{dc.SalesOffices, func(d Division) string { return d.SalesOffice }},
		{dc.SalesGroups, func(d Division) string { return d.SalesGroup }},
	}
	for _, check := range checks {
		if len(check.values) == 0 {
			continue
		}
		if !intersects(check.values, id.Divisions, check.value) {
			return false
		}
	}
	return true
}

func destinationExcludes(dc DestinationCode, id Identity) bool {
	for _, d := range id.Divisions {
		for _, ex := range dc.ExcludedExternalIDs {
			if ex != "" && strings.EqualFold(ex, d.BuyerExternalID) {
				return true
			}
		}
		for _, ex := range dc.ExcludedGroups {
			if ex != "" && strings.EqualFold(ex, d.Group) {
				return true
			}
		}
	}
	return false
}

func intersects(values []string, divisions []Division, value func(Division) string) bool {
	for _, v := range values {
		for _, d := range divisions {
			if v == value(d) {
				return true
			}
		}
	}
	return false
}

// TargetRow pairs a target with its scoping; the matcher filters rows before
// the engine ever sees a promotion.
type TargetRow struct {
	Target Target
	Scope  Scope
}

// EligibleTargets filters target rows to those matching the buyer and the
// current instant.
func EligibleTargets(rows []TargetRow, id Identity, now time.Time) []TargetRow {
	out := make([]TargetRow, 0, len(rows))
	for _, row := range rows {
		if MatchScope(row.Scope, id, now) {
			out = append(out, row)
		}
	}
	return out
}

// BestTarget picks the winning row when several rows of one promotion match
// the same item: the lowest numeric priority wins. Returns false when rows is
// empty.
func BestTarget(rows []TargetRow) (TargetRow, bool) {
	if len(rows) == 0 {
		return TargetRow{}, false
	}
	best := rows[0]
	for _, row := range rows[1:] {
		if row.Target.Priority < best.Target.Priority {
			best = row
		}
	}
	return best, true
}
