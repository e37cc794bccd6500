package render

import (
	"strings"
	"testing"

	"github.com/louisbranch/roster.space/internal/platform/i18n"
	"github.com/louisbranch/roster.space/internal/roster"
	"github.com/louisbranch/roster.space/internal/roster/codec"
)

func mustRoster(t *testing.T, caps []int, opts roster.Options) roster.Roster {
	t.Helper()
	r, err := roster.New("m1", caps, opts)
	if err != nil {
		t.Fatalf("new roster: %v", err)
	}
	return r
}

func TestMessage_ContentAndRows(t *testing.T) {
	r := mustRoster(t, []int{2, 1}, roster.Options{
		Title: "Friday raid",
		Seed:  map[int][]string{1: {"alice"}},
	})
	c := i18n.Match("en-US")

	view, err := Message(r, c)
	if err != nil {
		t.Fatalf("message: %v", err)
	}

	if !strings.Contains(view.Content, "**Friday raid**") {
		t.Fatalf("content missing title:\n%s", view.Content)
	}
	if !strings.Contains(view.Content, "<@alice>") {
		t.Fatalf("content missing member mention:\n%s", view.Content)
	}
	if !strings.Contains(view.Content, "(empty)") {
		t.Fatalf("content missing empty marker:\n%s", view.Content)
	}

	// Two group rows plus the admin row.
	if len(view.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(view.Rows))
	}
	first := view.Rows[0].Buttons
	if len(first) != 2 || first[0].ID != "join_1" || first[1].ID != "leave_1" {
		t.Fatalf("group row buttons = %+v", first)
	}
	admin := view.Rows[2].Buttons
	if len(admin) != 1 || admin[0].ID != AdminOpenID {
		t.Fatalf("admin row = %+v", admin)
	}
}

func TestMessage_PayloadIsLastLineAndRoundTrips(t *testing.T) {
	r := mustRoster(t, []int{3}, roster.Options{Seed: map[int][]string{1: {"a", "b"}}})
	r.Version = 7
	c := i18n.Match("en-US")

	view, err := Message(r, c)
	if err != nil {
		t.Fatalf("message: %v", err)
	}

	lines := strings.Split(view.Content, "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "<!--roster:") {
		t.Fatalf("last line = %q, want payload comment", last)
	}

	got, err := codec.Decode("m1", view.Content)
	if err != nil {
		t.Fatalf("decode rendered content: %v", err)
	}
	if !got.Equal(r) {
		t.Fatalf("decoded roster = %+v, want %+v", got, r)
	}
}

func TestMessage_LocalizedNumerals(t *testing.T) {
	r := mustRoster(t, []int{1, 1}, roster.Options{})
	c := i18n.Match("zh-TW")

	view, err := Message(r, c)
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if !strings.Contains(view.Content, "一") || !strings.Contains(view.Content, "二") {
		t.Fatalf("content missing localized group numerals:\n%s", view.Content)
	}
}

func TestAdminPanel(t *testing.T) {
	r := mustRoster(t, []int{2, 2}, roster.Options{
		Seed: map[int][]string{1: {"alice"}, 2: {"bob"}},
	})
	view := AdminPanel(r, i18n.Match("en-US"))

	if len(view.Rows) != 2 {
		t.Fatalf("rows = %d, want kick and move selects", len(view.Rows))
	}
	kick := view.Rows[0].Select
	if kick == nil || kick.ID != KickSelectID {
		t.Fatalf("first row = %+v, want kick select", view.Rows[0])
	}
	if len(kick.Options) != 2 || kick.MaxValues != 1 {
		t.Fatalf("kick select = %+v", kick)
	}
	move := view.Rows[1].Select
	if move == nil || move.ID != MoveSelectID || move.MaxValues != 1 {
		t.Fatalf("second row = %+v, want single-pick move select", view.Rows[1])
	}

	group, participant, ok := ParseMemberValue(kick.Options[1].Value)
	if !ok || group != 2 || participant != "bob" {
		t.Fatalf("ParseMemberValue(%q) = %d, %q, %v", kick.Options[1].Value, group, participant, ok)
	}
}

func TestAdminPanel_EmptyRosterHasNoSelects(t *testing.T) {
	r := mustRoster(t, []int{2}, roster.Options{})
	view := AdminPanel(r, i18n.Match("en-US"))
	if len(view.Rows) != 0 {
		t.Fatalf("rows = %d, want none for empty roster", len(view.Rows))
	}
}

func TestAdminPanel_CapsOptionsAtSelectLimit(t *testing.T) {
	members := make([]string, 30)
	for i := range members {
		members[i] = "p" + strings.Repeat("x", i+1)
	}
	r := mustRoster(t, []int{30}, roster.Options{Seed: map[int][]string{1: members}})
	view := AdminPanel(r, i18n.Match("en-US"))

	kick := view.Rows[0].Select
	if len(kick.Options) != 25 {
		t.Fatalf("kick options = %d, want 25", len(kick.Options))
	}
}

func TestMoveTargets_ExcludesSourceGroup(t *testing.T) {
	r := mustRoster(t, []int{1, 2, 3}, roster.Options{})
	view := MoveTargets(r, i18n.Match("en-US"), "alice", 2)

	if len(view.Rows) != 1 || view.Rows[0].Select == nil {
		t.Fatalf("rows = %+v, want one select", view.Rows)
	}
	sel := view.Rows[0].Select
	if sel.ID != DestSelectID {
		t.Fatalf("select id = %q", sel.ID)
	}
	if len(sel.Options) != 2 {
		t.Fatalf("options = %d, want source excluded", len(sel.Options))
	}
	for _, o := range sel.Options {
		if o.Value == "2" {
			t.Fatalf("source group offered as destination: %+v", sel.Options)
		}
	}
	if !strings.Contains(view.Content, "<@alice>") {
		t.Fatalf("content missing participant mention:\n%s", view.Content)
	}
}

func TestParseMemberValue_Invalid(t *testing.T) {
	for _, value := range []string{"", "noseparator", ":missing", "0:alice", "-1:bob", "x:bob", "2:"} {
		if _, _, ok := ParseMemberValue(value); ok {
			t.Fatalf("ParseMemberValue(%q) accepted invalid value", value)
		}
	}
}
