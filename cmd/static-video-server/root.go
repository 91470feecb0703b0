package main

import (
	"github.com/spf13/cobra"

	"static-video-server/internal/startup"
)

// newRootCmd builds the root command. Flag defaults come from the
// environment, so the .env file must be loaded before this is called.
func newRootCmd() *cobra.Command {
	opts := startup.OptionsFromEnv()

	cmd := &cobra.Command{
		Use:   "static-video-server",
		Short: "Serve a directory of video files over HTTP",
		Long: `static-video-server scans a directory tree for video files, assigns each
one a short identifier and serves an index page plus the files themselves.

Every flag can also be set through the environment variable named in its
description, or through a .env file in the working directory.`,
		Version:      startup.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.AssetsRoot, "assets-root", "a", opts.AssetsRoot, "directory to scan for videos (ASSETS_ROOT)")
	flags.StringVar(&opts.Host, "host", opts.Host, "host to listen on (HOST)")
	flags.IntVarP(&opts.Port, "port", "p", opts.Port, "port to listen on (PORT)")
	flags.DurationVar(&opts.IndexInterval, "index-interval", opts.IndexInterval, "rebuild the catalog periodically, 0 disables (INDEX_INTERVAL)")
	flags.BoolVar(&opts.Watch, "watch", opts.Watch, "rebuild the catalog when files change (WATCH)")
	flags.IntVar(&opts.ReloadRateLimit, "reload-rate-limit", opts.ReloadRateLimit, "reload requests per minute per client, 0 disables (RELOAD_RATE_LIMIT)")
	flags.DurationVar(&opts.StreamWriteTimeout, "stream-write-timeout", opts.StreamWriteTimeout, "abort a stream when one write stalls this long, 0 disables (STREAM_WRITE_TIMEOUT)")
	flags.BoolVar(&opts.LogStaticFiles, "log-static-files", opts.LogStaticFiles, "log requests for static assets (LOG_STATIC_FILES)")
	flags.BoolVar(&opts.LogHealthChecks, "log-health-checks", opts.LogHealthChecks, "log health check requests (LOG_HEALTH_CHECKS)")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		startup.LogFatal("%v", err)
	}
}
