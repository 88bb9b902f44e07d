package auth

// Permission keys correspond to the capabilities the screens gate on.
const (
	KeyViewData    = "view_data"
	KeyEditAny     = "edit_any"
	KeyManageTools = "manage_tools"
	KeyManageUsers = "manage_users"
	KeyExport      = "export"
)

// Permission levels, ordered.
const (
	LevelNone     = "none"
	LevelView     = "view"
	LevelEdit     = "edit"
	LevelOverride = "override"
)

var levelOrder = map[string]int{
	LevelNone:     0,
	LevelView:     1,
	LevelEdit:     2,
	LevelOverride: 3,
}

// permissions maps role -> key -> level. Roles absent here (Operator, Tool
// Changer, Leader, Quality) have no elevated capabilities; their screens
// are scoped by role directly.
var permissions = map[string]map[string]string{
	"Top (Super User)": {
		KeyViewData:    LevelEdit,
		KeyEditAny:     LevelOverride,
		KeyManageTools: LevelEdit,
		KeyManageUsers: LevelNone, // Top does not manage users
		KeyExport:      LevelEdit,
	},
	"Admin": {
		KeyViewData:    LevelEdit,
		KeyEditAny:     LevelEdit,
		KeyManageTools: LevelEdit,
		KeyManageUsers: LevelEdit,
		KeyExport:      LevelEdit,
	},
}

// Can reports whether role holds key at the given level or higher.
func Can(role, key, atLeast string) bool {
	have := LevelNone
	if perms, ok := permissions[role]; ok {
		if lvl, ok := perms[key]; ok {
			have = lvl
		}
	}
	want, ok := levelOrder[atLeast]
	if !ok {
		want = levelOrder[LevelView]
	}
	return levelOrder[have] >= want
}

// CanOverride reports whether role may use the override edit path.
func CanOverride(role string) bool {
	return Can(role, KeyEditAny, LevelOverride)
}
