// Package version reports the build version of flowctl.
package version

// version is set at build time with -ldflags "-X flowci-console/internal/application/version.version=..."
var version = "dev"

func GetVersion() string {
	return version
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "flowctl/" + version
}
