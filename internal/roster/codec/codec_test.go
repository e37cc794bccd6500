package codec

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
	"github.com/louisbranch/roster.space/internal/roster"
)

func TestRoundTrip(t *testing.T) {
	rosters := []roster.Roster{
		mustNew(t, []int{3}, roster.Options{}),
		mustNew(t, []int{2, 1}, roster.Options{Title: "raid night", OwnerID: "owner-1"}),
		mustNew(t, []int{1, 1, 1}, roster.Options{
			MultiAllowed: true,
			OwnerID:      "owner-2",
			Seed:         map[int][]string{1: {"a", "b"}, 3: {"c"}},
		}),
	}
	for _, r := range rosters {
		r.Version = 7

		payload, err := Encode(r)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		decoded, err := Decode(r.ID, "some display text\n"+payload)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !decoded.Equal(r) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, r)
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	r := mustNew(t, []int{2, 1}, roster.Options{Title: "t", Seed: map[int][]string{1: {"a"}}})
	a, err := Encode(r)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := Encode(r)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if a != b {
		t.Fatalf("same roster encoded differently:\n%s\n%s", a, b)
	}
}

func TestDecode_PayloadLocationIndependent(t *testing.T) {
	r := mustNew(t, []int{1}, roster.Options{})
	payload, _ := Encode(r)

	contents := []string{
		payload,
		"title line\nGroup 1 (-1)\n(empty)\n" + payload,
		payload + "\ntrailing text",
		"前言 " + payload + " 後記",
	}
	for _, content := range contents {
		if _, err := Decode("m1", content); err != nil {
			t.Fatalf("decode %q: %v", content, err)
		}
	}
}

func TestDecode_LegacyV1(t *testing.T) {
	content := "第一團（-1）\n<@111>\n" +
		`<!--state:{"title":"老團","caps":[1,0],"members":{"1":["111"],"2":["222"]},"multi":true,"ownerId":"999"}-->`

	r, err := Decode("m9", content)
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if r.ID != "m9" || r.Title != "老團" || !r.MultiAllowed || r.OwnerID != "999" {
		t.Fatalf("legacy fields = %+v", r)
	}
	if r.Version != 0 {
		t.Fatalf("legacy version = %d, want 0", r.Version)
	}
	if len(r.Groups) != 2 {
		t.Fatalf("groups = %+v", r.Groups)
	}
	if r.Groups[0].CapacityRemaining != 1 || r.Groups[0].Members[0] != "111" {
		t.Fatalf("group 1 = %+v", r.Groups[0])
	}
	if r.Groups[1].CapacityRemaining != 0 || r.Groups[1].Members[0] != "222" {
		t.Fatalf("group 2 = %+v", r.Groups[1])
	}
}

func TestDecode_FallbackPrefersCurrentFormat(t *testing.T) {
	current := mustNew(t, []int{5}, roster.Options{Title: "new"})
	current.Version = 3
	payload, _ := Encode(current)
	content := payload + "\n" + `<!--state:{"title":"old","caps":[1],"members":{"1":[]},"multi":false,"ownerId":""}-->`

	r, err := Decode("m1", content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Title != "new" || r.Version != 3 {
		t.Fatalf("decoded legacy instead of current: %+v", r)
	}
}

func TestDecode_Adversarial(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"no payload":       "just a chat message",
		"truncated base64": "<!--roster:v2:!!notbase64-->",
		"junk cbor":        "<!--roster:v2:AAAA-->",
		"junk json":        "<!--state:{not json}-->",
		"negative caps":    `<!--state:{"caps":[-1],"members":{}}-->`,
		"empty caps":       `<!--state:{"caps":[],"members":{}}-->`,
		"huge declared":    "<!--roster:v2:" + strings.Repeat("A", maxPayloadSize+8) + "-->",
	}
	for name, content := range cases {
		_, err := Decode("m1", content)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: err = %v, want ErrNotFound", name, err)
		}
		if !apperrors.IsCode(err, apperrors.CodeStalePayload) {
			t.Fatalf("%s: code = %v, want STALE_PAYLOAD", name, apperrors.GetCode(err))
		}
	}
}

func mustNew(t *testing.T, caps []int, opts roster.Options) roster.Roster {
	t.Helper()
	r, err := roster.New("m1", caps, opts)
	if err != nil {
		t.Fatalf("new roster: %v", err)
	}
	return r
}
