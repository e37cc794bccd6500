package i18n

import (
	"strconv"

	"golang.org/x/text/language"
)

var hanNumerals = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十", "十一", "十二", "十三", "十四", "十五"}

func hanNumeral(n int) string {
	if n >= 0 && n < len(hanNumerals) {
		return hanNumerals[n]
	}
	return strconv.Itoa(n)
}

var zhTWCatalog = &Catalog{
	tag:      language.MustParse("zh-TW"),
	numerals: hanNumeral,
	messages: map[string]string{
		KeyAlreadyMember:         "你已在第{{.Group}}團。",
		KeyNotMember:             "你不在第{{.Group}}團。",
		KeyTargetNotMember:       "該成員不在此團。",
		KeyConflictingMembership: "你已加入其他團，未開啟「允許多團」。",
		KeyGroupFull:             "第{{.Group}}團名額已滿。",
		KeySameGroup:             "來源與目的為同一團。",
		KeyNotAuthorized:         "只有開團者或伺服器管理員可以使用管理功能。",
		KeyGroupIndexInvalid:     "第{{.Group}}團不存在。",
		KeySessionExpired:        "管理操作已逾時，請重新開啟管理面板。",
		KeyBusy:                  "系統忙碌，請稍後重試。",
		KeyCapsFormat:            "名額格式錯誤，請用「12,12,12」",

		KeyRosterHeading:   "目前名單：",
		KeyGroupLabel:      "第{{.Group}}團（-{{.Remaining}}）",
		KeyEmptyGroup:      "（無）",
		KeyJoinButton:      "加入第{{.Group}}團",
		KeyLeaveButton:     "離開第{{.Group}}團",
		KeyAdminButton:     "管理名單（踢人 / 移組）",
		KeyAdminPanelTitle: "管理名單（踢人 / 移組）",
		KeyKickPlaceholder: "選擇要踢出的成員（一次一位）",
		KeyMovePlaceholder: "選擇要移組的成員（一次一位）",
		KeyDestPlaceholder: "選擇目的團",
		KeyKickOption:      "踢出：第{{.Group}}團 @{{.Participant}}",
		KeyMoveOption:      "移組：第{{.Group}}團 @{{.Participant}}",
		KeyDestOption:      "第{{.Group}}團（剩 {{.Remaining}}）",
		KeyPickDestination: "選擇 <@{{.Participant}}> 的目的團：",
		KeyKicked:          "已將 <@{{.Participant}}> 踢出第{{.Group}}團。",
		KeyMoved:           "已將 <@{{.Participant}}> 從第{{.From}}團移至第{{.To}}團。",
	},
}
