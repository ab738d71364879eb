package cdss

// arg is one named request field in string form. Every endpoint builds
// its arg list explicitly, so validation and error reporting see the
// same names the caller set.
type arg struct {
	name  string
	value string
}

// policy selects the missingness condition checked by checkArgs. The
// names mirror the upstream library's any/all convention, which is
// inverted relative to what the words suggest: policyAny errors when
// any checked argument is empty (so the set is jointly required), while
// policyAll errors only when every checked argument is empty (so at
// least one is required). Call sites depend on the observed behavior,
// so it is kept as is.
type policy int

const (
	policyAny policy = iota
	policyAll
)

// presence renders a non-string field for validation purposes only.
func presence(set bool) string {
	if set {
		return "set"
	}
	return ""
}

func presencePtr(p *int) string {
	return presence(p != nil)
}

// checkArgs applies the policy over args, skipping names listed in
// ignore, and returns a ValidationError naming each empty argument.
func checkArgs(p policy, args []arg, ignore ...string) error {
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	var checked, missing []string
	for _, a := range args {
		if skip[a.name] {
			continue
		}
		checked = append(checked, a.name)
		if a.value == "" {
			missing = append(missing, a.name)
		}
	}

	failed := false
	switch p {
	case policyAny:
		failed = len(missing) > 0
	case policyAll:
		failed = len(checked) > 0 && len(missing) == len(checked)
	}
	if !failed {
		return nil
	}
	return &ValidationError{Missing: missing}
}
