// Package render turns roster state into a platform-neutral view: display
// text plus interactive component rows. The transport layer maps the view
// onto the chat platform's wire shapes.
package render

import (
	"strconv"
	"strings"

	"github.com/louisbranch/roster.space/internal/platform/i18n"
	"github.com/louisbranch/roster.space/internal/roster"
	"github.com/louisbranch/roster.space/internal/roster/codec"
)

// Component identifiers referenced by the transport when routing clicks
// back to actions.
const (
	JoinPrefix   = "join_"
	LeavePrefix  = "leave_"
	AdminOpenID  = "admin_open"
	KickSelectID = "admin_kick"
	MoveSelectID = "admin_move"
	DestSelectID = "admin_move_to"
)

// maxSelectOptions is the platform's cap on options per select menu.
const maxSelectOptions = 25

// Button is a clickable component.
type Button struct {
	ID       string
	Label    string
	Primary  bool
	Disabled bool
}

// SelectOption is one entry in a select menu.
type SelectOption struct {
	Label string
	Value string
}

// Select is a dropdown component. MaxValues above one allows multi-pick.
type Select struct {
	ID          string
	Placeholder string
	Options     []SelectOption
	MaxValues   int
}

// Row holds either buttons or a single select, never both.
type Row struct {
	Buttons []Button
	Select  *Select
}

// View is a renderable message: text content plus component rows.
type View struct {
	Content string
	Rows    []Row
}

// Message renders the shared roster message. The encoded payload is always
// the last line of the content so edits to display text never detach it.
func Message(r roster.Roster, c *i18n.Catalog) (View, error) {
	payload, err := codec.Encode(r)
	if err != nil {
		return View{}, err
	}

	var b strings.Builder
	if r.Title != "" {
		b.WriteString("**" + r.Title + "**\n")
	}
	b.WriteString(c.Format(i18n.KeyRosterHeading, nil))
	for i, g := range r.Groups {
		b.WriteString("\n")
		b.WriteString(c.Format(i18n.KeyGroupLabel, map[string]string{
			"Group":     c.Ordinal(i + 1),
			"Remaining": strconv.Itoa(g.CapacityRemaining),
		}))
		b.WriteString(": ")
		if len(g.Members) == 0 {
			b.WriteString(c.Format(i18n.KeyEmptyGroup, nil))
			continue
		}
		for j, m := range g.Members {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteString(mention(m))
		}
	}
	b.WriteString("\n" + payload)

	rows := make([]Row, 0, len(r.Groups)+1)
	for i := range r.Groups {
		idx := strconv.Itoa(i + 1)
		meta := map[string]string{"Group": c.Ordinal(i + 1)}
		rows = append(rows, Row{Buttons: []Button{
			{ID: JoinPrefix + idx, Label: c.Format(i18n.KeyJoinButton, meta), Primary: true},
			{ID: LeavePrefix + idx, Label: c.Format(i18n.KeyLeaveButton, meta)},
		}})
	}
	rows = append(rows, Row{Buttons: []Button{
		{ID: AdminOpenID, Label: c.Format(i18n.KeyAdminButton, nil)},
	}})

	return View{Content: b.String(), Rows: rows}, nil
}

// AdminPanel renders the ephemeral management panel: one select to kick
// members and one to start a two-step move.
func AdminPanel(r roster.Roster, c *i18n.Catalog) View {
	var kick, move []SelectOption
	for i, g := range r.Groups {
		for _, m := range g.Members {
			value := memberValue(i+1, m)
			meta := map[string]string{"Group": c.Ordinal(i + 1), "Participant": m}
			kick = appendOption(kick, SelectOption{
				Label: c.Format(i18n.KeyKickOption, meta), Value: value,
			})
			move = appendOption(move, SelectOption{
				Label: c.Format(i18n.KeyMoveOption, meta), Value: value,
			})
		}
	}

	var rows []Row
	if len(kick) > 0 {
		rows = append(rows, Row{Select: &Select{
			ID:          KickSelectID,
			Placeholder: c.Format(i18n.KeyKickPlaceholder, nil),
			Options:     kick,
			MaxValues:   1,
		}})
	}
	if len(move) > 0 {
		rows = append(rows, Row{Select: &Select{
			ID:          MoveSelectID,
			Placeholder: c.Format(i18n.KeyMovePlaceholder, nil),
			Options:     move,
			MaxValues:   1,
		}})
	}
	return View{Content: c.Format(i18n.KeyAdminPanelTitle, nil), Rows: rows}
}

// MoveTargets renders step two of a move: pick the destination group for
// the participant chosen in step one. The source group is excluded.
func MoveTargets(r roster.Roster, c *i18n.Catalog, participant string, source int) View {
	var options []SelectOption
	for i, g := range r.Groups {
		if i+1 == source {
			continue
		}
		options = appendOption(options, SelectOption{
			Label: c.Format(i18n.KeyDestOption, map[string]string{
				"Group":     c.Ordinal(i + 1),
				"Remaining": strconv.Itoa(g.CapacityRemaining),
			}),
			Value: strconv.Itoa(i + 1),
		})
	}
	return View{
		Content: c.Format(i18n.KeyPickDestination, map[string]string{"Participant": participant}),
		Rows: []Row{{Select: &Select{
			ID:          DestSelectID,
			Placeholder: c.Format(i18n.KeyDestPlaceholder, nil),
			Options:     options,
			MaxValues:   1,
		}}},
	}
}

// ParseMemberValue splits a kick/move option value back into its 1-based
// group index and participant id.
func ParseMemberValue(value string) (group int, participant string, ok bool) {
	idx, rest, found := strings.Cut(value, ":")
	if !found {
		return 0, "", false
	}
	group, err := strconv.Atoi(idx)
	if err != nil || group < 1 || rest == "" {
		return 0, "", false
	}
	return group, rest, true
}

func memberValue(group int, participant string) string {
	return strconv.Itoa(group) + ":" + participant
}

func appendOption(opts []SelectOption, o SelectOption) []SelectOption {
	if len(opts) >= maxSelectOptions {
		return opts
	}
	return append(opts, o)
}

func mention(id string) string {
	return "<@" + id + ">"
}
