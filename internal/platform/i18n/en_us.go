package i18n

import (
	"strconv"

	"golang.org/x/text/language"
)

// Message keys shared by all catalogs. Error-code keys must match the codes
// defined in internal/platform/errors/codes.go.
const (
	KeyAlreadyMember         = "ALREADY_MEMBER"
	KeyNotMember             = "NOT_MEMBER"
	KeyTargetNotMember       = "TARGET_NOT_MEMBER"
	KeyConflictingMembership = "CONFLICTING_MEMBERSHIP"
	KeyGroupFull             = "GROUP_FULL"
	KeySameGroup             = "SAME_GROUP"
	KeyNotAuthorized         = "NOT_AUTHORIZED"
	KeyGroupIndexInvalid     = "GROUP_INDEX_INVALID"
	KeySessionExpired        = "SESSION_EXPIRED"
	KeyBusy                  = "BUSY"
	KeyCapsFormat            = "CAPS_FORMAT"

	KeyRosterHeading   = "ui.roster_heading"
	KeyGroupLabel      = "ui.group_label"
	KeyEmptyGroup      = "ui.empty_group"
	KeyJoinButton      = "ui.join_button"
	KeyLeaveButton     = "ui.leave_button"
	KeyAdminButton     = "ui.admin_button"
	KeyAdminPanelTitle = "ui.admin_panel_title"
	KeyKickPlaceholder = "ui.kick_placeholder"
	KeyMovePlaceholder = "ui.move_placeholder"
	KeyDestPlaceholder = "ui.dest_placeholder"
	KeyKickOption      = "ui.kick_option"
	KeyMoveOption      = "ui.move_option"
	KeyDestOption      = "ui.dest_option"
	KeyPickDestination = "ui.pick_destination"
	KeyKicked          = "ui.kicked"
	KeyMoved           = "ui.moved"
)

var enUSCatalog = &Catalog{
	tag:      language.MustParse("en-US"),
	numerals: strconv.Itoa,
	messages: map[string]string{
		KeyAlreadyMember:         "You are already in group {{.Group}}.",
		KeyNotMember:             "You are not in group {{.Group}}.",
		KeyTargetNotMember:       "That member is no longer in the group.",
		KeyConflictingMembership: "You already joined another group and multiple groups are not allowed.",
		KeyGroupFull:             "Group {{.Group}} is full.",
		KeySameGroup:             "Source and destination are the same group.",
		KeyNotAuthorized:         "Only the roster owner or a server admin can manage the roster.",
		KeyGroupIndexInvalid:     "Group {{.Group}} does not exist.",
		KeySessionExpired:        "The admin panel timed out. Open it again to start over.",
		KeyBusy:                  "Busy right now, try again shortly.",
		KeyCapsFormat:            "Bad capacity format, use something like 12,12,12.",

		KeyRosterHeading:   "Current roster:",
		KeyGroupLabel:      "Group {{.Group}} (-{{.Remaining}})",
		KeyEmptyGroup:      "(empty)",
		KeyJoinButton:      "Join group {{.Group}}",
		KeyLeaveButton:     "Leave group {{.Group}}",
		KeyAdminButton:     "Manage roster (kick / move)",
		KeyAdminPanelTitle: "Manage roster (kick / move)",
		KeyKickPlaceholder: "Pick a member to kick",
		KeyMovePlaceholder: "Pick one member to move",
		KeyDestPlaceholder: "Pick the destination group",
		KeyKickOption:      "Kick: group {{.Group}} @{{.Participant}}",
		KeyMoveOption:      "Move: group {{.Group}} @{{.Participant}}",
		KeyDestOption:      "Group {{.Group}} ({{.Remaining}} left)",
		KeyPickDestination: "Pick a destination group for <@{{.Participant}}>:",
		KeyKicked:          "Kicked <@{{.Participant}}> from group {{.Group}}.",
		KeyMoved:           "Moved <@{{.Participant}}> from group {{.From}} to group {{.To}}.",
	},
}
