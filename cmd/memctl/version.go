package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const libraryPath = "github.com/joshuapare/memkit"

// buildVersion describes the running binary from its embedded build info.
type buildVersion struct {
	Version   string `json:"version"`
	Library   string `json:"memkit"`
	GoVersion string `json:"go"`
	Revision  string `json:"revision,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

func readBuildVersion() buildVersion {
	v := buildVersion{Version: "(devel)", Library: "(devel)", GoVersion: "unknown"}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}

	v.GoVersion = info.GoVersion
	if info.Main.Version != "" {
		v.Version = info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path != libraryPath {
			continue
		}
		v.Library = dep.Version
		if dep.Replace != nil {
			v.Library = "=> " + dep.Replace.Path
		}
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			v.Revision = s.Value
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}
	return v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(readBuildVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(v buildVersion) error {
	if jsonOut {
		return printJSON(v)
	}
	fmt.Printf("memctl %s\n", v.Version)
	fmt.Printf("  memkit: %s\n", v.Library)
	fmt.Printf("  go: %s\n", v.GoVersion)
	if v.Revision != "" {
		suffix := ""
		if v.Modified {
			suffix = " (modified)"
		}
		fmt.Printf("  revision: %s%s\n", v.Revision, suffix)
	}
	return nil
}
