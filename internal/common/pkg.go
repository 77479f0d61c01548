package common

import (
	"path"
	"strings"
)

const (
	UnknownStr       = "unknown"
	InterfaceTypeStr = "any"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// SplitQualified splits "example.com/pkg.Name" into its package path and name.
// A name without a package qualifier yields an empty path.
func SplitQualified(qualified string) (pkgPath, name string) {
	slash := strings.LastIndex(qualified, "/")

	dot := strings.LastIndex(qualified[slash+1:], ".")
	if dot < 0 {
		return "", qualified
	}

	dot += slash + 1

	return qualified[:dot], qualified[dot+1:]
}
