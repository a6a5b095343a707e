package domain

import (
	"regexp"
	"strings"
)

var commitPrefixRegex = regexp.MustCompile(`^(fix|feature|release)\(([^()]*)\):`)

var prefixKinds = map[string]BumpKind{
	"fix":     BumpPatch,
	"feature": BumpMinor,
	"release": BumpMajor,
}

// CommitMessage is a commit message that carries a recognized bump prefix.
type CommitMessage struct {
	Prefix  string
	Scope   string
	Subject string
	Kind    BumpKind
}

// ParseCommitMessage matches `prefix(scope): subject` at the start of the
// trimmed message. Prefixes are case sensitive; the scope may be empty.
func ParseCommitMessage(msg string) (CommitMessage, bool) {
	trimmed := strings.TrimSpace(msg)
	m := commitPrefixRegex.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return CommitMessage{}, false
	}
	prefix := trimmed[m[2]:m[3]]
	subject, _, _ := strings.Cut(trimmed[m[1]:], "\n")
	return CommitMessage{
		Prefix:  prefix,
		Scope:   trimmed[m[4]:m[5]],
		Subject: strings.TrimSpace(subject),
		Kind:    prefixKinds[prefix],
	}, true
}

// Classify maps a commit message to the bump it earns. Anything that does not
// parse is BumpNone.
func Classify(msg string) BumpKind {
	cm, ok := ParseCommitMessage(msg)
	if !ok {
		return BumpNone
	}
	return cm.Kind
}

// StripCommentLines drops git comment lines from a commit message file.
func StripCommentLines(msg string) string {
	lines := strings.Split(msg, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
