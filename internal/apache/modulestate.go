package apache

// ModuleState classifies what a2query knows about a module. The values are
// the a2query exit codes per apache2/debian/a2query.in.
//
// a2query only considers modules recorded under /var/lib/apache2/module/,
// so "absent from the toggle registry" (NotFound) is distinct from
// "disabled by policy" (OffByAdmin / OffByMaintainer) and the two need
// different handling on disable.
type ModuleState int

const (
	ModuleFound           ModuleState = 0
	ModuleNotFound        ModuleState = 1
	ModuleOffByAdmin      ModuleState = 32
	ModuleOffByMaintainer ModuleState = 33
)

// ModuleStateFromCode maps an a2query exit code onto a ModuleState. The
// second return is false for codes outside the known set.
func ModuleStateFromCode(code int) (ModuleState, bool) {
	switch ModuleState(code) {
	case ModuleFound, ModuleNotFound, ModuleOffByAdmin, ModuleOffByMaintainer:
		return ModuleState(code), true
	default:
		return ModuleState(code), false
	}
}

func (s ModuleState) String() string {
	switch s {
	case ModuleFound:
		return "Found"
	case ModuleNotFound:
		return "NotFound"
	case ModuleOffByAdmin:
		return "OffByAdmin"
	case ModuleOffByMaintainer:
		return "OffByMaintainer"
	default:
		return "Unknown"
	}
}

// ToggleResult is the tagged outcome of a module toggle attempt. Failures
// are reported through the error return alongside it, so callers branch on
// an explicit tag instead of probing error strings.
type ToggleResult int

const (
	// ToggleApplied means the external toggle command ran and succeeded.
	ToggleApplied ToggleResult = iota

	// ToggleAlreadySatisfied means the module was already in the requested
	// state and no external command was invoked.
	ToggleAlreadySatisfied
)

func (r ToggleResult) String() string {
	switch r {
	case ToggleApplied:
		return "Applied"
	case ToggleAlreadySatisfied:
		return "AlreadySatisfied"
	default:
		return "Unknown"
	}
}
