package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/killallgit/recipe-api/api/types"
)

// Set at build time with -ldflags "-X github.com/killallgit/recipe-api/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the Recipe Extraction API build: version, commit, build time
and the Go runtime it was compiled with.`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
	versionCmd.Flags().Bool("json", false, "print version information as JSON")
}

func buildInfo() types.BuildInfo {
	return types.BuildInfo{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	build := buildInfo()

	if short, _ := cmd.Flags().GetBool("short"); short {
		fmt.Fprintf(out, "v%s\n", build.Version)
		return nil
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"version":    build.Version,
			"git_commit": build.GitCommit,
			"build_time": build.BuildTime,
			"go_version": runtime.Version(),
			"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		})
	}

	return printVersion(out, build)
}

func printVersion(out io.Writer, build types.BuildInfo) error {
	fmt.Fprintln(out, "Recipe Extraction API")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Version:\tv%s\n", build.Version)
	fmt.Fprintf(w, "Git Commit:\t%s\n", build.GitCommit)
	fmt.Fprintf(w, "Build Time:\t%s\n", build.BuildTime)
	fmt.Fprintf(w, "Go Version:\t%s\n", runtime.Version())
	fmt.Fprintf(w, "OS/Arch:\t%s/%s\n", runtime.GOOS, runtime.GOARCH)
	return w.Flush()
}
