package orchestrator

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateBranchName checks a branch name against the git ref name rules
// that matter for the tracker.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if len(branch) > 255 {
		return fmt.Errorf("branch name too long: %d characters (max: 255)", len(branch))
	}
	if strings.HasPrefix(branch, "/") || strings.HasSuffix(branch, "/") {
		return fmt.Errorf("branch name cannot start or end with slash: %s", branch)
	}
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("branch name cannot start with a dash: %s", branch)
	}
	if strings.Contains(branch, "..") {
		return fmt.Errorf("branch name cannot contain consecutive dots: %s", branch)
	}
	if strings.Contains(branch, "//") {
		return fmt.Errorf("branch name cannot contain consecutive slashes: %s", branch)
	}
	if strings.Contains(branch, "@{") {
		return fmt.Errorf("branch name cannot contain '@{': %s", branch)
	}
	if strings.HasSuffix(branch, ".lock") || strings.HasSuffix(branch, ".") {
		return fmt.Errorf("branch name cannot end with .lock or a dot: %s", branch)
	}
	for _, r := range branch {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune("~^:?*[\\", r) {
			return fmt.Errorf("invalid branch name format: %s", branch)
		}
	}
	return nil
}
