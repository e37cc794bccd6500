package roster

import (
	"strconv"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
)

// Actor identifies who is requesting a mutation. Privileged marks elevated
// platform-level administrative permission, resolved by the transport.
type Actor struct {
	ID         string
	Privileged bool
}

// Action is one roster mutation request.
type Action interface {
	isAction()
}

// Join adds the actor to the 1-based group index.
type Join struct {
	Group int
}

// Leave removes the actor from the 1-based group index.
type Leave struct {
	Group int
}

// Kick removes a participant from every group. Owner or privileged only.
type Kick struct {
	Participant string
}

// Move relocates a participant between two groups. Owner or privileged only.
type Move struct {
	Participant string
	From        int
	To          int
}

func (Join) isAction()  {}
func (Leave) isAction() {}
func (Kick) isAction()  {}
func (Move) isAction()  {}

// Apply computes the roster resulting from one action. It is pure and
// deterministic: the input roster is never mutated, and a rejection returns
// the zero Roster with a coded error. A successful application returns a
// deep copy with Version incremented.
func Apply(r Roster, action Action, actor Actor) (Roster, error) {
	next := r.Clone()

	var err error
	switch a := action.(type) {
	case Join:
		err = applyJoin(&next, a, actor)
	case Leave:
		err = applyLeave(&next, a, actor)
	case Kick:
		err = applyKick(&next, a, actor)
	case Move:
		err = applyMove(&next, a, actor)
	default:
		err = apperrors.New(apperrors.CodeUnknown, "unsupported action")
	}
	if err != nil {
		return Roster{}, err
	}

	next.Version = r.Version + 1
	return next, nil
}

func applyJoin(r *Roster, a Join, actor Actor) error {
	g, err := groupAt(r, a.Group)
	if err != nil {
		return err
	}
	if containsMember(g.Members, actor.ID) {
		return apperrors.WithMetadata(apperrors.CodeAlreadyMember,
			"actor already in group", groupMeta(a.Group))
	}
	if !r.MultiAllowed && len(r.GroupsOf(actor.ID)) > 0 {
		return apperrors.New(apperrors.CodeConflictingMembership,
			"actor already in another group and multi is off")
	}
	if g.CapacityRemaining == 0 {
		return apperrors.WithMetadata(apperrors.CodeGroupFull,
			"group has no remaining capacity", groupMeta(a.Group))
	}
	g.Members = append(g.Members, actor.ID)
	g.CapacityRemaining--
	return nil
}

func applyLeave(r *Roster, a Leave, actor Actor) error {
	g, err := groupAt(r, a.Group)
	if err != nil {
		return err
	}
	if !removeMember(g, actor.ID) {
		return apperrors.WithMetadata(apperrors.CodeNotMember,
			"actor not in group", groupMeta(a.Group))
	}
	return nil
}

func applyKick(r *Roster, a Kick, actor Actor) error {
	if err := authorize(r, actor); err != nil {
		return err
	}
	kicked := false
	for i := range r.Groups {
		if removeMember(&r.Groups[i], a.Participant) {
			kicked = true
		}
	}
	if !kicked {
		return apperrors.WithMetadata(apperrors.CodeNotMember,
			"participant not in any group",
			map[string]string{"Participant": a.Participant})
	}
	return nil
}

func applyMove(r *Roster, a Move, actor Actor) error {
	if err := authorize(r, actor); err != nil {
		return err
	}
	from, err := groupAt(r, a.From)
	if err != nil {
		return err
	}
	to, err := groupAt(r, a.To)
	if err != nil {
		return err
	}
	if a.From == a.To {
		return apperrors.New(apperrors.CodeSameGroup, "move source equals destination")
	}
	if !containsMember(from.Members, a.Participant) {
		return apperrors.WithMetadata(apperrors.CodeNotMember,
			"participant not in source group", groupMeta(a.From))
	}
	if to.CapacityRemaining == 0 {
		return apperrors.WithMetadata(apperrors.CodeGroupFull,
			"destination has no remaining capacity", groupMeta(a.To))
	}
	removeMember(from, a.Participant)
	to.Members = append(to.Members, a.Participant)
	to.CapacityRemaining--
	return nil
}

func authorize(r *Roster, actor Actor) error {
	if actor.Privileged {
		return nil
	}
	if r.OwnerID != "" && actor.ID == r.OwnerID {
		return nil
	}
	return apperrors.New(apperrors.CodeNotAuthorized,
		"kick and move require the roster owner or elevated permission")
}

func groupAt(r *Roster, index int) (*Group, error) {
	if index < 1 || index > len(r.Groups) {
		return nil, apperrors.WithMetadata(apperrors.CodeGroupIndexInvalid,
			"group index out of range", groupMeta(index))
	}
	return &r.Groups[index-1], nil
}

// removeMember deletes id from the group, restoring its capacity slot.
// It reports whether the member was present.
func removeMember(g *Group, id string) bool {
	for i, m := range g.Members {
		if m == id {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			g.CapacityRemaining++
			return true
		}
	}
	return false
}

func groupMeta(index int) map[string]string {
	return map[string]string{"Group": strconv.Itoa(index)}
}
