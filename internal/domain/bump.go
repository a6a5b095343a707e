package domain

// BumpKind is the kind of version increment a commit earns.
type BumpKind int

const (
	BumpNone BumpKind = iota
	BumpPatch
	BumpMinor
	BumpMajor
	// BumpBuild only exists under SchemeBuild.
	BumpBuild
)

func (k BumpKind) String() string {
	switch k {
	case BumpNone:
		return "none"
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	case BumpBuild:
		return "build"
	}
	return "unknown"
}

// IsSemantic reports whether the kind counts against the one-bump-per-branch rule.
func (k BumpKind) IsSemantic() bool {
	return k == BumpPatch || k == BumpMinor || k == BumpMajor
}
