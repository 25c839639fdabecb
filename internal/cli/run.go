package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/handtrack/internal/app"
	"github.com/ayusman/handtrack/internal/config"
)

var (
	runFlags pipelineFlags

	runCamera     int
	runFullscreen bool
	runServe      bool
	runAddr       string
	runHeadless   bool
	runStaticDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track hands from a camera and show the overlay",
	Long: `Captures frames from a camera and draws the hand overlay in the "Hands"
window. Press 'q' in the window or Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		cfg, err := loadConfig(cmd, &runFlags, func(c *config.Config) {
			if flags.Changed("camera") {
				c.Camera = runCamera
			}
			if flags.Changed("fullscreen") {
				c.Fullscreen = runFullscreen
			}
			if flags.Changed("serve") {
				c.Serve = runServe
			}
			if flags.Changed("addr") {
				c.Addr = runAddr
			}
		})
		if err != nil {
			return err
		}

		staticDir := runStaticDir
		if staticDir == "" {
			staticDir = findWebDir()
		}

		a, err := app.New(app.Config{
			Settings:  cfg,
			Store:     db,
			Logger:    log,
			StaticDir: staticDir,
			Headless:  runHeadless,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.Warn("close detector", zap.Error(err))
			}
		}()

		if runHeadless && !cfg.Serve {
			log.Warn("headless without --serve shows nothing; results are only logged")
		}
		return a.Live(cmd.Context())
	},
}

func init() {
	d := config.Default()
	runFlags.register(runCmd)

	fs := runCmd.Flags()
	fs.IntVarP(&runCamera, "camera", "c", d.Camera, "Camera device index")
	fs.BoolVar(&runFullscreen, "fullscreen", d.Fullscreen, "Show the window fullscreen")
	fs.BoolVar(&runServe, "serve", d.Serve, "Serve stream, results and metrics over HTTP")
	fs.StringVar(&runAddr, "addr", d.Addr, "HTTP listen address")
	fs.BoolVar(&runHeadless, "headless", false, "Do not open a window")
	fs.StringVar(&runStaticDir, "static-dir", "", "Directory of web files served at / (default: auto-detect)")

	rootCmd.AddCommand(runCmd)
}
