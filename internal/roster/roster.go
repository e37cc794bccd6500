// Package roster defines the capacity-bounded sign-up roster and the pure
// mutation rules applied to it. Nothing in this package performs I/O; all
// coordination happens in the callers.
package roster

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
)

// MaxGroups bounds how many groups one roster may carry. The shared message
// renders one component row per group plus one admin row, and the platform
// caps a message at five rows.
const MaxGroups = 4

// Group is one numbered, capacity-bounded subset of a roster. Member order
// is insertion order and is preserved for display.
type Group struct {
	CapacityRemaining int
	Members           []string
}

// Roster is the unit of coordination: the full sign-up state carried inside
// one shared message.
type Roster struct {
	// ID identifies the shared message holding this roster's encoded state.
	ID           string
	Title        string
	Groups       []Group
	MultiAllowed bool
	// OwnerID is the actor allowed to kick and move members, in addition to
	// any actor with elevated platform permission.
	OwnerID string
	// Version increases by one on every applied mutation and is used for
	// stale-write detection.
	Version uint64
}

// Options configures roster construction.
type Options struct {
	Title        string
	MultiAllowed bool
	OwnerID      string
	// Seed pre-populates membership by 1-based group index. Duplicate ids
	// within a group and entries beyond the group's capacity are dropped.
	Seed map[int][]string
}

// New validates capacities and builds the initial roster.
func New(id string, capacities []int, opts Options) (Roster, error) {
	if len(capacities) == 0 {
		return Roster{}, apperrors.New(apperrors.CodeCapacityListEmpty, "capacity list is empty")
	}
	if len(capacities) > MaxGroups {
		return Roster{}, apperrors.WithMetadata(apperrors.CodeTooManyGroups,
			"too many groups to render",
			map[string]string{"Max": strconv.Itoa(MaxGroups)})
	}
	groups := make([]Group, len(capacities))
	for i, capacity := range capacities {
		if capacity < 0 {
			return Roster{}, apperrors.WithMetadata(apperrors.CodeCapacityNegative,
				"group capacity is negative",
				map[string]string{"Group": strconv.Itoa(i + 1)})
		}
		groups[i] = Group{CapacityRemaining: capacity}
	}

	r := Roster{
		ID:           id,
		Title:        strings.TrimSpace(opts.Title),
		Groups:       groups,
		MultiAllowed: opts.MultiAllowed,
		OwnerID:      opts.OwnerID,
	}

	for idx := 1; idx <= len(r.Groups); idx++ {
		for _, member := range opts.Seed[idx] {
			g := &r.Groups[idx-1]
			if g.CapacityRemaining == 0 || containsMember(g.Members, member) {
				continue
			}
			g.Members = append(g.Members, member)
			g.CapacityRemaining--
		}
	}

	return r, nil
}

// GroupsOf returns the 1-based indexes of every group the participant
// belongs to, in group order.
func (r Roster) GroupsOf(participant string) []int {
	var indexes []int
	for i, g := range r.Groups {
		if containsMember(g.Members, participant) {
			indexes = append(indexes, i+1)
		}
	}
	return indexes
}

// Clone returns a deep copy; mutations on the copy never alias the original.
func (r Roster) Clone() Roster {
	out := r
	out.Groups = make([]Group, len(r.Groups))
	for i, g := range r.Groups {
		out.Groups[i] = Group{
			CapacityRemaining: g.CapacityRemaining,
			Members:           append([]string(nil), g.Members...),
		}
	}
	return out
}

// Equal reports deep equality, including member order.
func (r Roster) Equal(other Roster) bool {
	if r.ID != other.ID || r.Title != other.Title ||
		r.MultiAllowed != other.MultiAllowed ||
		r.OwnerID != other.OwnerID || r.Version != other.Version ||
		len(r.Groups) != len(other.Groups) {
		return false
	}
	for i := range r.Groups {
		a, b := r.Groups[i], other.Groups[i]
		if a.CapacityRemaining != b.CapacityRemaining || len(a.Members) != len(b.Members) {
			return false
		}
		for j := range a.Members {
			if a.Members[j] != b.Members[j] {
				return false
			}
		}
	}
	return true
}

func containsMember(members []string, id string) bool {
	for _, m := range members {
		if m == id {
			return true
		}
	}
	return false
}
