// Package injury tracks player availability and converts injury reports
// into point-spread impact estimates.
package injury

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Status is a closed set of injury report designations.
type Status string

const (
	StatusOut          Status = "out"
	StatusDoubtful     Status = "doubtful"
	StatusQuestionable Status = "questionable"
	StatusProbable     Status = "probable"
	StatusHealthy      Status = "healthy"
)

// ParseStatus maps a report string to a Status, defaulting to out for
// unknown values (conservative: treat unknown designations as missing).
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(s)) {
	case StatusOut, StatusDoubtful, StatusQuestionable, StatusProbable, StatusHealthy:
		return Status(strings.ToLower(s))
	}
	return StatusOut
}

// Role is a closed set of player importance tiers.
type Role string

const (
	RoleStar     Role = "star"     // top 1-2 players
	RoleStarter  Role = "starter"  // starting five
	RoleRotation Role = "rotation" // 6th-9th man
	RoleBench    Role = "bench"    // end of bench
)

// ParseRole maps a string to a Role, defaulting to rotation.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(s)) {
	case RoleStar, RoleStarter, RoleRotation, RoleBench:
		return Role(strings.ToLower(s))
	}
	return RoleRotation
}

// Tables holds the status and role lookup tables. Both are configuration,
// not derived values.
type Tables struct {
	MissProbability map[Status]float64
	BaseImpact      map[Role]float64
}

// DefaultTables returns the standard probability and impact tables.
func DefaultTables() Tables {
	return Tables{
		MissProbability: map[Status]float64{
			StatusOut:          1.0,
			StatusDoubtful:     0.80,
			StatusQuestionable: 0.45,
			StatusProbable:     0.15,
			StatusHealthy:      0.0,
		},
		BaseImpact: map[Role]float64{
			RoleStar:     4.0,
			RoleStarter:  2.0,
			RoleRotation: 1.0,
			RoleBench:    0.3,
		},
	}
}

// Entry is one player's injury listing. Entries are keyed by (team, player);
// re-adding a player replaces the prior entry.
type Entry struct {
	Player string
	Team   string
	Status Status
	Role   Role
	Reason string

	expectedImpact float64
}

// ExpectedImpact is the entry's expected spread impact in points, always
// non-positive (injuries hurt the team).
func (e Entry) ExpectedImpact() float64 {
	return e.expectedImpact
}

// Ledger maintains per-team injury entries and derives matchup impact
// differentials. Safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	tables  Tables
	entries map[string][]Entry // keyed by upper-cased team
}

// NewLedger creates a ledger using the given lookup tables.
func NewLedger(tables Tables) *Ledger {
	return &Ledger{
		tables:  tables,
		entries: make(map[string][]Entry),
	}
}

func (l *Ledger) expectedImpact(status Status, role Role) float64 {
	impact := -1 * l.tables.MissProbability[status] * l.tables.BaseImpact[role]
	return math.Round(impact*100) / 100
}

// AddOrReplace records an injury entry, replacing any prior entry for the
// same (team, player) pair.
func (l *Ledger) AddOrReplace(player, team string, status Status, role Role, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := strings.ToUpper(team)
	entry := Entry{
		Player:         player,
		Team:           key,
		Status:         status,
		Role:           role,
		Reason:         reason,
		expectedImpact: l.expectedImpact(status, role),
	}

	existing := l.entries[key]
	for i, e := range existing {
		if e.Player == player {
			existing[i] = entry
			return
		}
	}
	l.entries[key] = append(existing, entry)
}

// Remove deletes a player's entry, if present.
func (l *Ledger) Remove(player, team string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := strings.ToUpper(team)
	kept := l.entries[key][:0]
	for _, e := range l.entries[key] {
		if e.Player != player {
			kept = append(kept, e)
		}
	}
	l.entries[key] = kept
}

// ClearTeam drops every entry for a team.
func (l *Ledger) ClearTeam(team string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, strings.ToUpper(team))
}

// ClearAll resets the ledger.
func (l *Ledger) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string][]Entry)
}

// TeamEntries returns a copy of a team's entries.
func (l *Ledger) TeamEntries(team string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	src := l.entries[strings.ToUpper(team)]
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// TeamImpact is the summed expected spread impact for a team, non-positive.
func (l *Ledger) TeamImpact(team string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total float64
	for _, e := range l.entries[strings.ToUpper(team)] {
		total += e.expectedImpact
	}
	return total
}

// MatchupDifferential is the net injury differential from teamA's
// perspective: impact(teamB) - impact(teamA). Positive = advantage to A.
func (l *Ledger) MatchupDifferential(teamA, teamB string) float64 {
	diff := l.TeamImpact(teamB) - l.TeamImpact(teamA)
	return math.Round(diff*100) / 100
}

// Summary renders a team's injury report, most impactful first.
func (l *Ledger) Summary(team string) string {
	entries := l.TeamEntries(team)
	if len(entries) == 0 {
		return "No significant injuries"
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].expectedImpact < entries[j].expectedImpact
	})

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s (%s) - %s [%+.1f pts]", e.Player, e.Role, e.Status, e.expectedImpact)
		if e.Reason != "" {
			fmt.Fprintf(&b, " (%s)", e.Reason)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  Total impact: %+.1f pts", l.TeamImpact(team))
	return b.String()
}

// Report is the bulk-load wire shape for one player.
type Report struct {
	Player string `json:"player"`
	Status string `json:"status"`
	Role   string `json:"role"`
	Reason string `json:"reason"`
}

// LoadFromMap bulk loads injuries keyed by team.
func (l *Ledger) LoadFromMap(data map[string][]Report) {
	for team, reports := range data {
		for _, r := range reports {
			l.AddOrReplace(r.Player, team, ParseStatus(r.Status), ParseRole(r.Role), r.Reason)
		}
	}
}
