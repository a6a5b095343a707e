package service

// Manifest keys the codecs look for
const (
	// VersionKey is the field holding the version in toml and json manifests
	VersionKey = "version"
	// PackageTable is the toml table holding the package version
	PackageTable = "package"
)
