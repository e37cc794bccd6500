package discord

// Command option types used by the registration payload.
const (
	commandTypeChatInput = 1
	optionTypeString     = 3
	optionTypeBoolean    = 5
)

// Command is the application command registration shape.
type Command struct {
	Name        string          `json:"name"`
	Type        int             `json:"type"`
	Description string          `json:"description"`
	Options     []CommandOption `json:"options,omitempty"`
}

// CommandOption is one declared command parameter.
type CommandOption struct {
	Type        int    `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// CommandName is the slash command that creates a roster message.
const CommandName = "cteam"

// Commands returns the full command set to register.
func Commands() []Command {
	return []Command{
		{
			Name:        CommandName,
			Type:        commandTypeChatInput,
			Description: "Create a capacity-bounded sign-up roster message",
			Options: []CommandOption{
				{
					Type:        optionTypeString,
					Name:        "caps",
					Description: "Per-group capacity, comma separated (e.g. 5,3,2)",
				},
				{
					Type:        optionTypeBoolean,
					Name:        "multi",
					Description: "Allow joining more than one group",
				},
				{
					Type:        optionTypeString,
					Name:        "title",
					Description: "Roster title (optional)",
				},
				{
					Type:        optionTypeString,
					Name:        "defaults",
					Description: "Pre-filled members, one line per group: \"1: <@id> <@id>\"",
				},
			},
		},
	}
}
