package startup

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"static-video-server/internal/logging"
)

const rule = "------------------------------------------------------------"

// section starts a titled block in the startup log
func section(title string) {
	logging.Info("")
	logging.Info(rule)
	logging.Info("%s", title)
	logging.Info(rule)
}

const banner = `
   _____ __        __  _        _    ___     __
  / ___// /_____ _/ /_(_)____  | |  / (_)___/ /__  ____  _____
  \__ \/ __/ __ '/ __/ / ___/  | | / / / __  / _ \/ __ \/ ___/
 ___/ / /_/ /_/ / /_/ / /__    | |/ / / /_/ /  __/ /_/ (__  )
/____/\__/\__,_/\__/_/\___/    |___/_/\__,_/\___/\____/____/
`

func printBanner() {
	fmt.Println(rule + banner + rule)
	logging.Info("  static-video-server %s (%s), built %s", Version, Commit, BuildTime)
	logging.Info("  Started at %s", time.Now().Format(time.RFC1123))
}

func logSystemInfo() {
	section("SYSTEM INFORMATION")
	logging.Info("  Runtime:  %s on %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs:     %d (GOMAXPROCS %d)", runtime.NumCPU(), runtime.GOMAXPROCS(0))

	if !logging.IsDebugEnabled() {
		return
	}
	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Workdir:  %s", wd)
	}
	if host, err := os.Hostname(); err == nil {
		logging.Debug("  Host:     %s", host)
	}
}

// onOff renders a toggle with a hint on how to turn it on
func onOff(enabled bool, hint string) string {
	if enabled {
		return "ON"
	}
	return "OFF (" + hint + ")"
}

// LogCatalogInit logs the start of the initial catalog build
func LogCatalogInit(root string) {
	section("CATALOG INITIALIZATION")
	logging.Info("  Scanning %s...", root)
}

// LogCatalogReady logs the result of the initial catalog build
func LogCatalogReady(videos int, duration time.Duration) {
	logging.Info("  [OK] %d videos cataloged in %v", videos, duration)
}

// LogIndexerStarted logs which background rebuild triggers are active
func LogIndexerStarted(interval time.Duration, watch bool) {
	periodic := onOff(false, "set INDEX_INTERVAL to enable")
	if interval > 0 {
		periodic = "every " + interval.String()
	}
	logging.Info("  Periodic rebuild: %s", periodic)
	logging.Info("  Filesystem watch: %s", onOff(watch, "set WATCH=true to enable"))
}

// LogServerStarted logs the listen address once the server accepts requests
func LogServerStarted(config *Config, startupDuration time.Duration) {
	section("SERVER STARTED")
	logging.Info("  Ready in %v", startupDuration)
	logging.Info("  Listening on http://%s (metrics at /metrics)", config.Addr())

	switch strings.Trim(config.Host, "[]") {
	case "", "0.0.0.0", "::":
		logging.Info("  Local access: http://localhost:%d", config.Port)
	}
	logging.Info("  Ctrl+C stops the server, SIGHUP reloads the catalog")
	logging.Info(rule)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section(fmt.Sprintf("SHUTDOWN (received %s)", signal))
}

// LogShutdownStep logs a shutdown step before it runs
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs and exits with status 1
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}
