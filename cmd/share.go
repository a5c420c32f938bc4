package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/killallgit/recipe-api/internal/services/capture"
)

// shareCmd publishes a shared post as the pending extraction
var shareCmd = &cobra.Command{
	Use:   "share <url>",
	Short: "Capture a shared post for extraction",
	Long: `Capture an Instagram or TikTok post into the handoff mailbox.

Any previously pending payload and its audio file are removed first. A running
server picks the new payload up on its next mailbox check.

Example:
  recipe-api share https://www.instagram.com/reel/abc/
  recipe-api share https://www.tiktok.com/@chef/video/123 --caption "2 eggs, whisk"
  recipe-api share https://www.instagram.com/reel/abc/ --audio ./clip.m4a`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)

	shareCmd.Flags().String("caption", "", "caption text of the post (skips caption prefetch)")
	shareCmd.Flags().String("audio", "", "path to an audio file to hand off with the post")
}

func runShare(cmd *cobra.Command, args []string) error {
	caption, _ := cmd.Flags().GetString("caption")
	audio, _ := cmd.Flags().GetString("audio")

	app, err := newApplication(cmd, false)
	if err != nil {
		return err
	}
	defer app.Close()

	payload, err := app.capture.Share(cmd.Context(), capture.Request{
		URL:       args[0],
		Caption:   caption,
		AudioPath: audio,
	})
	if err != nil {
		return fmt.Errorf("failed to capture share: %w", err)
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
