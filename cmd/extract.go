package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/captions"
	"github.com/killallgit/recipe-api/internal/services/extraction"
)

// extractCmd runs one extraction in the foreground
var extractCmd = &cobra.Command{
	Use:   "extract [url]",
	Short: "Extract a recipe once and print it",
	Long: `Run a single extraction and print the merged recipe as JSON.

With a URL the post is extracted directly. Without one the pending payload is
taken from the handoff mailbox and cleaned up after a successful extraction
unless --keep is set.

Example:
  recipe-api extract
  recipe-api extract https://www.instagram.com/reel/abc/
  recipe-api extract https://www.tiktok.com/@chef/video/123 --caption "..." --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("caption", "", "caption text to parse instead of fetching it")
	extractCmd.Flags().Bool("save", false, "store the extracted recipe in the database")
	extractCmd.Flags().Bool("keep", false, "keep the pending payload after a successful extraction")
}

func runExtract(cmd *cobra.Command, args []string) error {
	caption, _ := cmd.Flags().GetString("caption")
	save, _ := cmd.Flags().GetBool("save")
	keep, _ := cmd.Flags().GetBool("keep")

	app, err := newApplication(cmd, save)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	fromMailbox := len(args) == 0

	var payload *models.ExtractionPayload
	if fromMailbox {
		payload, err = app.mailbox.LoadPending(ctx)
		if err != nil {
			return fmt.Errorf("failed to load pending payload: %w", err)
		}
		if payload == nil {
			return errors.New("no pending extraction")
		}
	} else {
		if _, err := captions.DetectPlatform(args[0]); err != nil {
			return err
		}
		payload = &models.ExtractionPayload{
			ID:        uuid.NewString(),
			SourceURL: models.StringPtr(args[0]),
			Caption:   models.StringPtr(caption),
			CreatedAt: time.Now().UTC(),
		}
	}

	recipe, err := app.extractor.Extract(ctx, payload)
	if err != nil {
		descriptor := extraction.Describe(extraction.KindOf(err))
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", descriptor.Title, descriptor.Message)
		return err
	}

	out, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if save {
		stored, err := app.recipes.SaveFromExtraction(ctx, recipe)
		if err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved recipe %d\n", stored.ID)
	}

	if fromMailbox && !keep {
		if err := app.mailbox.Cleanup(ctx, payload); err != nil {
			app.logger.Warn("failed to clean up payload", zap.Error(err))
		}
	}
	return nil
}
