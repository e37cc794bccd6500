package discord

import (
	"encoding/json"

	"github.com/louisbranch/roster.space/internal/render"
)

// Interaction types.
const (
	interactionPing               = 1
	interactionApplicationCommand = 2
	interactionMessageComponent   = 3
)

// Interaction response types.
const (
	responsePong           = 1
	responseChannelMessage = 4
	responseDeferredUpdate = 6
	responseUpdateMessage  = 7
)

// Component types and button styles.
const (
	componentRowType   = 1
	componentButton    = 2
	componentSelect    = 3
	buttonStyleSuccess = 3
	buttonStyleSecond  = 2
)

// flagEphemeral marks a response visible only to the triggering actor.
const flagEphemeral = 64

// permissionAdministrator is the platform's admin permission bit.
const permissionAdministrator = 0x8

type interaction struct {
	Type          int              `json:"type"`
	Token         string           `json:"token"`
	ApplicationID string           `json:"application_id"`
	Locale        string           `json:"locale"`
	GuildLocale   string           `json:"guild_locale"`
	ChannelID     string           `json:"channel_id"`
	Data          *interactionData `json:"data"`
	Member        *guildMember     `json:"member"`
	User          *user            `json:"user"`
	Message       *message         `json:"message"`
}

type interactionData struct {
	Name     string          `json:"name"`
	CustomID string          `json:"custom_id"`
	Values   []string        `json:"values"`
	Options  []commandOption `json:"options"`
}

// commandOption carries a raw value because the wire type depends on the
// option (string or bool here).
type commandOption struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type guildMember struct {
	User        *user  `json:"user"`
	Permissions string `json:"permissions"`
}

type user struct {
	ID string `json:"id"`
}

type message struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type interactionResponse struct {
	Type int           `json:"type"`
	Data *responseData `json:"data,omitempty"`
}

type responseData struct {
	Content         string           `json:"content,omitempty"`
	Components      []componentRow   `json:"components,omitempty"`
	Flags           int              `json:"flags,omitempty"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

// allowedMentions with an empty parse list keeps the member mentions in the
// roster text from pinging anyone.
type allowedMentions struct {
	Parse []string `json:"parse"`
}

type componentRow struct {
	Type       int         `json:"type"`
	Components []component `json:"components"`
}

type component struct {
	Type        int            `json:"type"`
	Style       int            `json:"style,omitempty"`
	Label       string         `json:"label,omitempty"`
	CustomID    string         `json:"custom_id,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	MinValues   *int           `json:"min_values,omitempty"`
	MaxValues   int            `json:"max_values,omitempty"`
	Options     []selectOption `json:"options,omitempty"`
}

type selectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func noMentions() *allowedMentions {
	return &allowedMentions{Parse: []string{}}
}

// viewData converts a rendered view into response data.
func viewData(v render.View) *responseData {
	return &responseData{
		Content:         v.Content,
		Components:      viewComponents(v),
		AllowedMentions: noMentions(),
	}
}

func viewComponents(v render.View) []componentRow {
	rows := make([]componentRow, 0, len(v.Rows))
	for _, row := range v.Rows {
		var comps []component
		switch {
		case row.Select != nil:
			one := 1
			comps = []component{{
				Type:        componentSelect,
				CustomID:    row.Select.ID,
				Placeholder: row.Select.Placeholder,
				MinValues:   &one,
				MaxValues:   row.Select.MaxValues,
				Options:     selectOptions(row.Select.Options),
			}}
		default:
			for _, b := range row.Buttons {
				style := buttonStyleSecond
				if b.Primary {
					style = buttonStyleSuccess
				}
				comps = append(comps, component{
					Type:     componentButton,
					Style:    style,
					Label:    b.Label,
					CustomID: b.ID,
				})
			}
		}
		rows = append(rows, componentRow{Type: componentRowType, Components: comps})
	}
	return rows
}

func selectOptions(opts []render.SelectOption) []selectOption {
	out := make([]selectOption, len(opts))
	for i, o := range opts {
		out[i] = selectOption{Label: o.Label, Value: o.Value}
	}
	return out
}
