// Package discord adapts the interactions webhook to the roster engine:
// it verifies and parses incoming interactions, maps components to roster
// actions, and translates engine responses back to the wire.
package discord

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/louisbranch/roster.space/internal/engine"
	"github.com/louisbranch/roster.space/internal/platform/i18n"
	"github.com/louisbranch/roster.space/internal/render"
	"github.com/louisbranch/roster.space/internal/roster"
	"github.com/louisbranch/roster.space/internal/roster/codec"
	"github.com/louisbranch/roster.space/internal/session"
	"github.com/louisbranch/roster.space/internal/transport"
)

// maxBodySize bounds the webhook request body.
const maxBodySize = 1 << 20

// defaultCaps mirrors the original deployment's default roster shape.
var defaultCaps = []int{12, 12, 12}

// Handler serves the interactions webhook.
type Handler struct {
	verifier  *Verifier
	responder *engine.Responder
	pipeline  *engine.Pipeline
	sessions  *session.Manager
	client    *Client
}

// NewHandler wires the webhook handler.
func NewHandler(verifier *Verifier, responder *engine.Responder, pipeline *engine.Pipeline, sessions *session.Manager, client *Client) *Handler {
	return &Handler{
		verifier:  verifier,
		responder: responder,
		pipeline:  pipeline,
		sessions:  sessions,
		client:    client,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		// Health endpoint, also hit by the warm-up cron.
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
		return
	case http.MethodPost:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !h.verifier.Verify(r.Header.Get("X-Signature-Timestamp"), body, r.Header.Get("X-Signature-Ed25519")) {
		http.Error(w, "bad signature", http.StatusUnauthorized)
		return
	}

	var in interaction
	if err := json.Unmarshal(body, &in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch {
	case in.Type == interactionPing:
		respond(w, interactionResponse{Type: responsePong})
	case in.Type == interactionApplicationCommand && in.Data != nil && in.Data.Name == CommandName:
		h.handleCreate(w, r, in)
	case in.Type == interactionMessageComponent && in.Data != nil:
		h.handleComponent(w, r, in)
	default:
		http.Error(w, "unsupported interaction", http.StatusBadRequest)
	}
}

// handleCreate builds a fresh roster from the slash command and answers
// with the roster message. The state is also parked under the interaction
// token so triggers racing the first message write can still resolve it.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request, in interaction) {
	catalog := i18n.Match(localeOf(in))

	caps, ok := parseCaps(stringOption(in.Data.Options, "caps"))
	if !ok {
		ephemeral(w, catalog.Format(i18n.KeyCapsFormat, nil))
		return
	}

	created, err := roster.New("", caps, roster.Options{
		Title:        stringOption(in.Data.Options, "title"),
		MultiAllowed: boolOption(in.Data.Options, "multi"),
		OwnerID:      actorOf(in),
		Seed:         parseDefaults(stringOption(in.Data.Options, "defaults")),
	})
	if err != nil {
		ephemeral(w, catalog.Format(i18n.KeyCapsFormat, nil))
		return
	}

	if err := h.pipeline.Bootstrap(r.Context(), in.Token, created); err != nil {
		log.Printf("bootstrap roster: %v", err)
	}

	view, err := render.Message(created, catalog)
	if err != nil {
		ephemeral(w, catalog.Format(i18n.KeyBusy, nil))
		return
	}
	respond(w, interactionResponse{Type: responseChannelMessage, Data: viewData(view)})
}

func (h *Handler) handleComponent(w http.ResponseWriter, r *http.Request, in interaction) {
	customID := in.Data.CustomID
	catalog := i18n.Match(localeOf(in))

	switch {
	case strings.HasPrefix(customID, render.JoinPrefix), strings.HasPrefix(customID, render.LeavePrefix):
		h.handleMembership(w, r, in)
	case customID == render.AdminOpenID:
		h.handleAdminOpen(w, in, catalog)
	case strings.HasPrefix(customID, render.KickSelectID+":"):
		h.handleKick(w, r, in, catalog)
	case strings.HasPrefix(customID, render.MoveSelectID+":"):
		h.handleMovePick(w, r, in, catalog)
	case strings.HasPrefix(customID, render.DestSelectID+":"):
		h.handleMoveTo(w, r, in, catalog)
	default:
		// Nothing to update; clear the client's loading state.
		respond(w, interactionResponse{Type: responseDeferredUpdate})
	}
}

// handleMembership runs join/leave clicks on the roster message itself.
func (h *Handler) handleMembership(w http.ResponseWriter, r *http.Request, in interaction) {
	name, idx, ok := strings.Cut(in.Data.CustomID, "_")
	group, err := strconv.Atoi(idx)
	if !ok || err != nil || in.Message == nil {
		respond(w, interactionResponse{Type: responseDeferredUpdate})
		return
	}

	var action roster.Action
	if name == "join" {
		action = roster.Join{Group: group}
	} else {
		action = roster.Leave{Group: group}
	}

	trig := transport.Trigger{
		RosterID:        in.Message.ID,
		ActorID:         actorOf(in),
		ActorPrivileged: hasAdminBit(in.Member),
		Action:          action,
		Locale:          localeOf(in),
		Token:           in.Token,
		AppID:           in.ApplicationID,
		Content:         in.Message.Content,
	}
	artifact := &webhookArtifact{
		client: h.client,
		appID:  in.ApplicationID,
		token:  in.Token,
		inline: in.Message.Content,
	}

	switch resp := h.responder.Respond(r.Context(), trig, artifact); resp.Kind {
	case engine.ResponseImmediate:
		respond(w, interactionResponse{Type: responseUpdateMessage, Data: viewData(resp.View)})
	case engine.ResponseFailed:
		ephemeral(w, resp.Notice)
	default:
		respond(w, interactionResponse{Type: responseDeferredUpdate})
	}
}

// handleAdminOpen answers the manage button with the ephemeral panel. The
// panel's selects carry the roster message address, because their own
// interactions point at the panel, not the roster.
func (h *Handler) handleAdminOpen(w http.ResponseWriter, in interaction, catalog *i18n.Catalog) {
	if in.Message == nil {
		respond(w, interactionResponse{Type: responseDeferredUpdate})
		return
	}
	current, err := codec.Decode(in.Message.ID, in.Message.Content)
	if err != nil {
		ephemeral(w, catalog.Format(i18n.KeyBusy, nil))
		return
	}
	if !canManage(in, current) {
		ephemeral(w, catalog.Format(i18n.KeyNotAuthorized, nil))
		return
	}

	view := render.AdminPanel(current, catalog)
	addressSelects(&view, in.ChannelID, in.Message.ID)
	data := viewData(view)
	data.Flags = flagEphemeral
	respond(w, interactionResponse{Type: responseChannelMessage, Data: data})
}

// handleKick removes the selected member from the roster message and
// confirms to the acting admin.
func (h *Handler) handleKick(w http.ResponseWriter, r *http.Request, in interaction, catalog *i18n.Catalog) {
	channelID, messageID, ok := splitAddress(in.Data.CustomID, render.KickSelectID)
	if !ok || len(in.Data.Values) == 0 {
		respond(w, interactionResponse{Type: responseDeferredUpdate})
		return
	}
	group, participant, ok := render.ParseMemberValue(in.Data.Values[0])
	if !ok {
		respond(w, interactionResponse{Type: responseDeferredUpdate})
		return
	}

	action := roster.Kick{Participant: participant}
	err := h.executeOnMessage(r, in, channelID, messageID, action)
	if err != nil {
		ephemeral(w, engine.Notice(catalog, action, err))
		return
	}
	ephemeral(w, catalog.Format(i18n.KeyKicked, map[string]string{
		"Participant": participant,
		"Group":       catalog.Ordinal(group),
	}))
}

// handleMovePick records the member chosen in step one and asks for the
// destination group.
func (h *Handler) handleMovePick(w http.ResponseWriter, r *http.Request, in interaction, catalog *i18n.Catalog) {
	channelID, messageID, ok := splitAddress(in.Data.CustomID, render.MoveSelectID)
	if !ok || len(in.Data.Values) == 0 {
		respond(w, interactionResponse{Type: responseDeferredUpdate})
		return
	}
	group, participant, ok := render.ParseMemberValue(in.Data.Values[0])
	if !ok {
		respond(w, interactionResponse{Type: responseDeferredUpdate})
		return
	}

	sel := session.Selection{ParticipantID: participant, SourceGroup: group}
	if err := h.sessions.Start(r.Context(), messageID, actorOf(in), sel); err != nil {
		ephemeral(w, catalog.Format(i18n.KeyBusy, nil))
		return
	}

	content, err := h.client.GetMessage(r.Context(), channelID, messageID)
	current, decodeErr := codec.Decode(messageID, content)
	if err != nil || decodeErr != nil {
		ephemeral(w, catalog.Format(i18n.KeyBusy, nil))
		return
	}

	view := render.MoveTargets(current, catalog, participant, group)
	addressSelects(&view, channelID, messageID)
	data := viewData(view)
	data.Flags = flagEphemeral
	respond(w, interactionResponse{Type: responseChannelMessage, Data: data})
}

// handleMoveTo finishes the move against the current roster state. The
// recorded selection is re-validated by the mutation itself, so a member
// who left between the two steps is rejected, not duplicated.
func (h *Handler) handleMoveTo(w http.ResponseWriter, r *http.Request, in interaction, catalog *i18n.Catalog) {
	channelID, messageID, ok := splitAddress(in.Data.CustomID, render.DestSelectID)
	if !ok || len(in.Data.Values) == 0 {
		respond(w, interactionResponse{Type: responseDeferredUpdate})
		return
	}
	dest, err := strconv.Atoi(in.Data.Values[0])
	if err != nil {
		respond(w, interactionResponse{Type: responseDeferredUpdate})
		return
	}

	actor := actorOf(in)
	sel, err := h.sessions.Get(r.Context(), messageID, actor)
	if err != nil {
		ephemeral(w, engine.Notice(catalog, nil, err))
		return
	}

	action := roster.Move{Participant: sel.ParticipantID, From: sel.SourceGroup, To: dest}
	if err := h.executeOnMessage(r, in, channelID, messageID, action); err != nil {
		ephemeral(w, engine.Notice(catalog, action, err))
		return
	}
	if err := h.sessions.Clear(r.Context(), messageID, actor); err != nil {
		log.Printf("clear move selection: %v", err)
	}
	ephemeral(w, catalog.Format(i18n.KeyMoved, map[string]string{
		"Participant": sel.ParticipantID,
		"From":        catalog.Ordinal(sel.SourceGroup),
		"To":          catalog.Ordinal(dest),
	}))
}

// executeOnMessage runs an admin action against a roster message addressed
// by channel and id, writing the updated message under the lock.
func (h *Handler) executeOnMessage(r *http.Request, in interaction, channelID, messageID string, action roster.Action) error {
	trig := transport.Trigger{
		RosterID:        messageID,
		ActorID:         actorOf(in),
		ActorPrivileged: hasAdminBit(in.Member),
		Action:          action,
		Locale:          localeOf(in),
		AppID:           in.ApplicationID,
	}
	artifact := &channelArtifact{
		client:    h.client,
		channelID: channelID,
		messageID: messageID,
		appID:     in.ApplicationID,
		token:     in.Token,
	}
	return h.pipeline.Execute(r.Context(), trig, artifact, artifact.Write)
}

// addressSelects suffixes every select id with the roster message address.
func addressSelects(v *render.View, channelID, messageID string) {
	for i := range v.Rows {
		if v.Rows[i].Select != nil {
			v.Rows[i].Select.ID += ":" + channelID + ":" + messageID
		}
	}
}

// splitAddress recovers the channel and message id from a select custom id
// of the form "<base>:<channel>:<message>".
func splitAddress(customID, base string) (channelID, messageID string, ok bool) {
	rest, found := strings.CutPrefix(customID, base+":")
	if !found {
		return "", "", false
	}
	channelID, messageID, found = strings.Cut(rest, ":")
	if !found || channelID == "" || messageID == "" {
		return "", "", false
	}
	return channelID, messageID, true
}

func canManage(in interaction, r roster.Roster) bool {
	if hasAdminBit(in.Member) {
		return true
	}
	return r.OwnerID != "" && actorOf(in) == r.OwnerID
}

func hasAdminBit(m *guildMember) bool {
	if m == nil || m.Permissions == "" {
		return false
	}
	bits, err := strconv.ParseUint(m.Permissions, 10, 64)
	if err != nil {
		return false
	}
	return bits&permissionAdministrator != 0
}

func actorOf(in interaction) string {
	if in.Member != nil && in.Member.User != nil {
		return in.Member.User.ID
	}
	if in.User != nil {
		return in.User.ID
	}
	return ""
}

func localeOf(in interaction) string {
	if in.Locale != "" {
		return in.Locale
	}
	return in.GuildLocale
}

func stringOption(opts []commandOption, name string) string {
	for _, o := range opts {
		if o.Name == name {
			var v string
			if err := json.Unmarshal(o.Value, &v); err == nil {
				return v
			}
		}
	}
	return ""
}

func boolOption(opts []commandOption, name string) bool {
	for _, o := range opts {
		if o.Name == name {
			var v bool
			if err := json.Unmarshal(o.Value, &v); err == nil {
				return v
			}
		}
	}
	return false
}

var (
	defaultsLine = regexp.MustCompile(`^(\d+)\s*:\s*(.*)$`)
	mentionRef   = regexp.MustCompile(`<@!?(\d+)>`)
)

// parseCaps parses the comma-separated capacity list, falling back to the
// deployment default when the option is absent.
func parseCaps(raw string) ([]int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultCaps, true
	}
	parts := strings.Split(raw, ",")
	caps := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, false
		}
		caps = append(caps, n)
	}
	return caps, true
}

// parseDefaults parses the pre-filled member block: one line per group,
// "<index>: <@id> <@id> …". Lines that don't match are skipped.
func parseDefaults(raw string) map[int][]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	seed := make(map[int][]string)
	for _, line := range strings.Split(raw, "\n") {
		m := defaultsLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 {
			continue
		}
		for _, ref := range mentionRef.FindAllStringSubmatch(m[2], -1) {
			seed[idx] = append(seed[idx], ref[1])
		}
	}
	return seed
}

func respond(w http.ResponseWriter, resp interactionResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("write interaction response: %v", err)
	}
}

func ephemeral(w http.ResponseWriter, content string) {
	respond(w, interactionResponse{
		Type: responseChannelMessage,
		Data: &responseData{
			Content:         content,
			Flags:           flagEphemeral,
			AllowedMentions: noMentions(),
		},
	})
}
