// Package codec embeds roster state as a self-describing payload inside the
// shared message's display text, and recovers it from any supported
// historical format.
//
// The payload rides in an HTML comment so it never pollutes the rendered
// text. The current format is deterministic CBOR (same roster always encodes
// to identical bytes, so no-op edits don't churn the message); the original
// deployment wrote bare JSON, which the decoder still accepts.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
	"github.com/louisbranch/roster.space/internal/roster"
)

// ErrNotFound indicates the content carries no decodable roster payload.
var ErrNotFound = apperrors.New(apperrors.CodeStalePayload, "no roster payload in content")

// maxPayloadSize bounds the embedded payload; anything larger is treated as
// adversarial and skipped.
const maxPayloadSize = 64 * 1024

var (
	markerV2 = regexp.MustCompile(`<!--roster:v2:([A-Za-z0-9_-]+)-->`)
	markerV1 = regexp.MustCompile(`<!--state:({[\s\S]*?})-->`)
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error
	// Core Deterministic Encoding: sorted map keys, smallest integer widths.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		MaxArrayElements: 4096,
		MaxMapPairs:      4096,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// payloadV2 is the current wire shape. The message id is deliberately not
// part of the payload; it is the address of the artifact, not its state.
type payloadV2 struct {
	Title   string     `cbor:"title,omitempty"`
	Caps    []int      `cbor:"caps"`
	Members [][]string `cbor:"members"`
	Multi   bool       `cbor:"multi,omitempty"`
	OwnerID string     `cbor:"owner,omitempty"`
	Version uint64     `cbor:"version"`
}

// payloadV1 is the legacy JSON shape written by the first deployment:
// members keyed by 1-based group index as a string, no version counter.
type payloadV1 struct {
	Title   string              `json:"title"`
	Caps    []int               `json:"caps"`
	Members map[string][]string `json:"members"`
	Multi   bool                `json:"multi"`
	OwnerID string              `json:"ownerId"`
}

// Encode serializes the roster into its embeddable payload block.
func Encode(r roster.Roster) (string, error) {
	p := payloadV2{
		Title:   r.Title,
		Caps:    make([]int, len(r.Groups)),
		Members: make([][]string, len(r.Groups)),
		Multi:   r.MultiAllowed,
		OwnerID: r.OwnerID,
		Version: r.Version,
	}
	for i, g := range r.Groups {
		p.Caps[i] = g.CapacityRemaining
		members := g.Members
		if members == nil {
			members = []string{}
		}
		p.Members[i] = members
	}
	raw, err := encMode.Marshal(p)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStalePayload, "encode roster payload", err)
	}
	return "<!--roster:v2:" + base64.RawURLEncoding.EncodeToString(raw) + "-->", nil
}

// Decode locates and decodes the roster payload anywhere inside content,
// independent of how the surrounding display text is phrased. It tries the
// current format first, then each known legacy format, before concluding
// ErrNotFound. Malformed or truncated payloads yield ErrNotFound, never a
// panic.
func Decode(id, content string) (roster.Roster, error) {
	if len(content) > 0 {
		if r, ok := decodeV2(id, content); ok {
			return r, nil
		}
		if r, ok := decodeV1(id, content); ok {
			return r, nil
		}
	}
	return roster.Roster{}, ErrNotFound
}

func decodeV2(id, content string) (roster.Roster, bool) {
	m := markerV2.FindStringSubmatch(content)
	if m == nil || len(m[1]) > maxPayloadSize {
		return roster.Roster{}, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(m[1])
	if err != nil {
		return roster.Roster{}, false
	}
	var p payloadV2
	if err := decMode.Unmarshal(raw, &p); err != nil {
		return roster.Roster{}, false
	}
	if len(p.Caps) == 0 || len(p.Caps) != len(p.Members) {
		return roster.Roster{}, false
	}
	r := roster.Roster{
		ID:           id,
		Title:        p.Title,
		Groups:       make([]roster.Group, len(p.Caps)),
		MultiAllowed: p.Multi,
		OwnerID:      p.OwnerID,
		Version:      p.Version,
	}
	for i := range p.Caps {
		if p.Caps[i] < 0 {
			return roster.Roster{}, false
		}
		r.Groups[i] = roster.Group{
			CapacityRemaining: p.Caps[i],
			Members:           p.Members[i],
		}
	}
	return r, true
}

func decodeV1(id, content string) (roster.Roster, bool) {
	m := markerV1.FindStringSubmatch(content)
	if m == nil || len(m[1]) > maxPayloadSize {
		return roster.Roster{}, false
	}
	var p payloadV1
	if err := json.Unmarshal([]byte(m[1]), &p); err != nil {
		return roster.Roster{}, false
	}
	if len(p.Caps) == 0 {
		return roster.Roster{}, false
	}
	r := roster.Roster{
		ID:           id,
		Title:        p.Title,
		Groups:       make([]roster.Group, len(p.Caps)),
		MultiAllowed: p.Multi,
		OwnerID:      p.OwnerID,
		// Legacy payloads predate the version counter and decode as 0.
	}
	for i := range p.Caps {
		if p.Caps[i] < 0 {
			return roster.Roster{}, false
		}
		r.Groups[i] = roster.Group{CapacityRemaining: p.Caps[i]}
		if members, ok := p.Members[strconv.Itoa(i+1)]; ok && len(members) > 0 {
			r.Groups[i].Members = members
		}
	}
	return r, true
}
