package graph

// Role tags the causal function of a variable relative to a
// treatment/outcome pair.
type Role string

const (
	RoleTreatment            Role = "treatment"
	RoleOutcome              Role = "outcome"
	RoleCommonCause          Role = "common_cause"
	RoleInstrument           Role = "instrument"
	RoleEffectModifier       Role = "effect_modifier"
	RoleUnobservedConfounder Role = "unobserved_confounder"
	RoleObservedOther        Role = "observed_other"
)

// Variable is a named node in a causal graph. A variable may carry several
// role tags, but never both treatment and outcome.
type Variable struct {
	Name     string
	Roles    []Role
	Observed bool
}

// HasRole reports whether the variable carries the given role tag.
func (v *Variable) HasRole(r Role) bool {
	for _, have := range v.Roles {
		if have == r {
			return true
		}
	}
	return false
}

func (v *Variable) addRole(r Role) {
	if !v.HasRole(r) {
		v.Roles = append(v.Roles, r)
	}
}
