package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/handtrack/internal/app"
)

var (
	renderFlags  pipelineFlags
	renderInput  string
	renderOutput string
	renderQuiet  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the hand overlay of a video file into a new video",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &renderFlags, nil)
		if err != nil {
			return err
		}

		a, err := app.New(app.Config{Settings: cfg, Store: db, Logger: log})
		if err != nil {
			return err
		}
		defer a.Close()

		opts := app.RenderOptions{Input: renderInput, Output: renderOutput}
		if !renderQuiet {
			opts.Progress = os.Stderr
		}
		return a.Render(cmd.Context(), opts)
	},
}

func init() {
	renderFlags.register(renderCmd)

	fs := renderCmd.Flags()
	fs.StringVarP(&renderInput, "input", "i", "", "Path to the source video")
	fs.StringVarP(&renderOutput, "output", "o", "", "Path of the rendered video (.avi)")
	fs.BoolVarP(&renderQuiet, "quiet", "q", false, "Hide the progress bar")

	renderCmd.MarkFlagRequired("input")
	renderCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(renderCmd)
}
