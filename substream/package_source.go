package substream

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/geobrowser/kg-indexer/kgerror"
)

const registryBaseURL = "https://spkg.io/v1/packages"

var packageNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// ResolvePackage resolves a package source string into the URL the
// substream package descriptor should be fetched from. source is one
// of:
//   - "name@version" (or bare "name") resolved against the registry
//   - a fully qualified http(s):// URL
//   - a local filesystem path
func ResolvePackage(source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if _, err := url.ParseRequestURI(source); err != nil {
			return "", kgerror.New(kgerror.CodePackageRef, "substream.ResolvePackage", err)
		}
		return source, nil
	}

	if strings.HasPrefix(source, "/") || strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") {
		return source, nil
	}

	name, version, _ := strings.Cut(source, "@")
	if !packageNamePattern.MatchString(name) {
		return "", kgerror.New(kgerror.CodePackageRef, "substream.ResolvePackage",
			fmt.Errorf("invalid package name %q", name))
	}

	version = strings.TrimPrefix(version, "v")
	if version == "" {
		version = "latest"
	}
	if version != "latest" && !isSemver(version) {
		return "", kgerror.New(kgerror.CodePackageRef, "substream.ResolvePackage",
			fmt.Errorf("invalid package version %q", version))
	}

	return fmt.Sprintf("%s/%s/%s", registryBaseURL, name, version), nil
}

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

func isSemver(version string) bool {
	return semverPattern.MatchString(version)
}
