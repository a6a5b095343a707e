package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	tomlTableRegex   = regexp.MustCompile(`^\s*\[\s*([^\[\]]+?)\s*\]\s*(#.*)?$`)
	tomlArrayRegex   = regexp.MustCompile(`^\s*\[\[`)
	tomlVersionRegex = regexp.MustCompile(`^(\s*version\s*=\s*)(["'])([^"']*)(["'])(.*)$`)
)

// tomlCodec handles Cargo-style manifests with the version under [package].
type tomlCodec struct{}

// NewTOMLCodec creates the toml ManifestCodec.
func NewTOMLCodec() ManifestCodec {
	return tomlCodec{}
}

func (tomlCodec) ReadVersion(data []byte) (string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to parse toml: %w", err)
	}
	pkg, ok := doc[PackageTable].(map[string]any)
	if !ok {
		return "", fmt.Errorf("no [%s] table", PackageTable)
	}
	switch v := pkg[VersionKey].(type) {
	case string:
		return v, nil
	case nil:
		return "", fmt.Errorf("no %s in [%s]", VersionKey, PackageTable)
	default:
		return "", fmt.Errorf("[%s] %s is a %T, not a string", PackageTable, VersionKey, v)
	}
}

// WriteVersion rewrites the first version assignment inside [package],
// keeping quoting, spacing and trailing comments.
func (tomlCodec) WriteVersion(data []byte, version string) ([]byte, error) {
	lines := strings.Split(string(data), "\n")
	table := ""
	for i, line := range lines {
		if tomlArrayRegex.MatchString(line) {
			table = ""
			continue
		}
		if m := tomlTableRegex.FindStringSubmatch(line); m != nil {
			table = m[1]
			continue
		}
		if table != PackageTable {
			continue
		}
		m := tomlVersionRegex.FindStringSubmatch(line)
		if m == nil || m[2] != m[4] {
			continue
		}
		lines[i] = m[1] + m[2] + version + m[4] + m[5]
		return []byte(strings.Join(lines, "\n")), nil
	}
	return nil, fmt.Errorf("no %s assignment in [%s]", VersionKey, PackageTable)
}
