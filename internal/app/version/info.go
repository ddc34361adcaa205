// Package version exposes build metadata stamped in via ldflags, e.g.
//
//	-ldflags "-X benchboard/internal/app/version.buildVersion=v1.2.0"
package version

// Info is the payload served by the version endpoint.
type Info struct {
	Version string `json:"version"`
	BuiltAt string `json:"built_at,omitempty"`
}

var (
	buildVersion = "dev"
	builtAt      = ""
)

func BuildVersion() string {
	return buildVersion
}

func BuiltAt() string {
	return builtAt
}

func GetInfo() Info {
	return Info{
		Version: BuildVersion(),
		BuiltAt: BuiltAt(),
	}
}
