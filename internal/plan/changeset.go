package plan

// Changeset is a tree of requirement groups: Requirements apply together,
// after every prerequisite changeset has been fully implemented.
type Changeset struct {
	Requirements  []Requirement
	Prerequisites []*Changeset
}

// AllRequirements flattens a changeset: prerequisites depth-first, followed
// by the changeset's own requirements.
func AllRequirements(cs *Changeset) []Requirement {
	if cs == nil {
		return nil
	}
	var out []Requirement
	for _, pre := range cs.Prerequisites {
		out = append(out, AllRequirements(pre)...)
	}
	return append(out, cs.Requirements...)
}

// Count returns the number of requirements across the whole tree.
func (cs *Changeset) Count() int {
	return len(AllRequirements(cs))
}
