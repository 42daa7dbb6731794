// Package version provides version information and the version command for web3tx.
package version

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"

	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Build-time variables injected via ldflags:
//
//	-X github.com/altuslabsxyz/web3tx/internal/version.Version={{.Version}}
//	-X github.com/altuslabsxyz/web3tx/internal/version.GitCommit={{.FullCommit}}
//	-X github.com/altuslabsxyz/web3tx/internal/version.BuildDate={{.Date}}
var (
	Version   = ""
	GitCommit = ""
	BuildDate = ""
	BuiltBy   = ""
)

const (
	appName        = "web3tx"
	appDescription = "Submit EVM transactions and follow them to a safe confirmation depth."
	appURL         = "https://github.com/altuslabsxyz/web3tx"
)

// Info is the version banner plus optional build dependencies.
type Info struct {
	goversion.Info `yaml:",inline"`

	BuildDeps []string `json:"buildDeps,omitempty" yaml:"build_deps,omitempty"`
}

// NewInfo collects version information. Values set through ldflags win over
// what the Go toolchain embedded in the binary.
func NewInfo() Info {
	info := goversion.GetVersionInfo(
		goversion.WithAppDetails(appName, appDescription, appURL),
		func(i *goversion.Info) {
			if Version != "" {
				i.GitVersion = Version
			}
			if GitCommit != "" {
				i.GitCommit = GitCommit
			}
			if BuildDate != "" {
				i.BuildDate = BuildDate
			}
			if BuiltBy != "" {
				i.BuiltBy = BuiltBy
			}
		},
	)
	return Info{Info: info}
}

// WithBuildDeps populates the build dependencies from runtime/debug.
func (i Info) WithBuildDeps() Info {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	i.BuildDeps = formatDeps(buildInfo.Deps)
	return i
}

func formatDeps(modules []*debug.Module) []string {
	deps := make([]string, 0, len(modules))
	for _, dep := range modules {
		depStr := fmt.Sprintf("%s@%s", dep.Path, dep.Version)
		if dep.Replace != nil {
			depStr = fmt.Sprintf("%s@%s => %s@%s", dep.Path, dep.Version, dep.Replace.Path, dep.Replace.Version)
		}
		deps = append(deps, depStr)
	}
	sort.Strings(deps)
	return deps
}

// Short returns a one-line "name version (commit)" string.
func (i Info) Short() string {
	commit := i.GitCommit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	var sb strings.Builder
	sb.WriteString(appName)
	sb.WriteString(" ")
	sb.WriteString(i.GitVersion)
	if commit != "" {
		fmt.Fprintf(&sb, " (%s)", commit)
	}
	return sb.String()
}

// LongString returns a YAML rendering including build dependencies.
func (i Info) LongString() string {
	data, err := yaml.Marshal(i)
	if err != nil {
		return i.String()
	}
	return string(data)
}

// NewCmd creates the version command.
//   - --long: Show detailed version info including build dependencies
//   - --json: Output in JSON format
func NewCmd() *cobra.Command {
	var (
		long       bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print version information including build details. Use --long for detailed dependency info.",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := NewInfo()
			if long {
				info = info.WithBuildDeps()
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if long {
				fmt.Fprint(out, info.LongString())
			} else {
				fmt.Fprintln(out, info.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "Show detailed version info including build dependencies")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info in JSON format")

	return cmd
}
