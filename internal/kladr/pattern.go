package kladr

// LevelPattern returns the wildcard pattern matching every code that shares
// the parent of level within code's branch. '?' stands for one digit.
// Only the level 1 pattern starts with a wildcard.
func LevelPattern(level int, code string) (string, bool) {
	if len(code) != CodeLength {
		return "", false
	}
	switch level {
	case 5:
		return code[:11] + "????", true
	case 4:
		return code[:8] + "???0000", true
	case 3:
		return code[:5] + "???0000000", true
	case 2:
		return code[:2] + "???0000000000", true
	case 1:
		return "??0000000000000", true
	default:
		return "", false
	}
}

// ChildrenPattern returns the wildcard pattern matching the codes one level
// below level inside code's branch.
func ChildrenPattern(level int, code string) (string, bool) {
	if len(code) != CodeLength {
		return "", false
	}
	switch level {
	case 4:
		return code[:11] + "????", true
	case 3:
		return code[:8] + "???0000", true
	case 2:
		return code[:5] + "???0000000", true
	case 1:
		return code[:2] + "???0000000000", true
	default:
		return "", false
	}
}
