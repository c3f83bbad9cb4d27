package selective

// FromYAML builds a List with the same semantics as a rule file from the
// include and exclude arrays of the configuration file.
func FromYAML(include, exclude []string) *List {
	l := &List{}
	for _, raw := range exclude {
		l.add(raw, true)
	}
	for _, raw := range include {
		l.add(raw, false)
	}
	l.HasRules = len(l.Rules) > 0
	return l
}
