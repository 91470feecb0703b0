package startup

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"static-video-server/internal/logging"
	"static-video-server/internal/mediatypes"
)

// Set at link time with -ldflags "-X static-video-server/internal/startup.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Defaults used when neither a flag nor its environment variable is set.
const (
	DefaultAssetsRoot         = "assets"
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 9092
	DefaultReloadRateLimit    = 10
	DefaultStreamWriteTimeout = 30 * time.Second
)

// Options are the raw settings collected from flags and the environment.
type Options struct {
	AssetsRoot         string
	Host               string
	Port               int
	IndexInterval      time.Duration
	Watch              bool
	LogStaticFiles     bool
	LogHealthChecks    bool
	ReloadRateLimit    int
	StreamWriteTimeout time.Duration
}

// OptionsFromEnv returns options whose values come from environment
// variables, falling back to the defaults. They serve as flag defaults.
func OptionsFromEnv() Options {
	return Options{
		AssetsRoot:         getEnv("ASSETS_ROOT", DefaultAssetsRoot),
		Host:               getEnv("HOST", DefaultHost),
		Port:               getEnvInt("PORT", DefaultPort),
		IndexInterval:      getEnvDuration("INDEX_INTERVAL", 0),
		Watch:              getEnvBool("WATCH", false),
		LogStaticFiles:     getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks:    getEnvBool("LOG_HEALTH_CHECKS", true),
		ReloadRateLimit:    getEnvInt("RELOAD_RATE_LIMIT", DefaultReloadRateLimit),
		StreamWriteTimeout: getEnvDuration("STREAM_WRITE_TIMEOUT", DefaultStreamWriteTimeout),
	}
}

// Config holds validated application configuration
type Config struct {
	// Root is the absolute path of the directory scanned for videos
	Root               string
	Host               string
	Port               int
	IndexInterval      time.Duration
	Watch              bool
	LogStaticFiles     bool
	LogHealthChecks    bool
	ReloadRateLimit    int
	StreamWriteTimeout time.Duration
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment are not overridden.
func LoadDotEnv() {
	err := godotenv.Load()
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("No .env file found, relying on process environment")
	default:
		logging.Warn("Failed to load .env file: %v", err)
	}
}

// LoadConfig validates options, resolves the root directory and logs the
// resulting configuration.
func LoadConfig(opts Options) (*Config, error) {
	printBanner()
	logSystemInfo()

	section("CONFIGURATION")
	for _, kv := range [][2]string{
		{"ASSETS_ROOT", opts.AssetsRoot},
		{"HOST", opts.Host},
		{"PORT", strconv.Itoa(opts.Port)},
		{"INDEX_INTERVAL", opts.IndexInterval.String()},
		{"WATCH", strconv.FormatBool(opts.Watch)},
		{"RELOAD_RATE_LIMIT", strconv.Itoa(opts.ReloadRateLimit) + "/min"},
		{"STREAM_WRITE_TIMEOUT", opts.StreamWriteTimeout.String()},
		{"LOG_STATIC_FILES", strconv.FormatBool(opts.LogStaticFiles)},
		{"LOG_HEALTH_CHECKS", strconv.FormatBool(opts.LogHealthChecks)},
		{"LOG_LEVEL", logging.GetLevel().String()},
	} {
		logging.Info("  %-21s %s", kv[0]+":", kv[1])
	}

	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	section("DIRECTORY SETUP")
	root, err := filepath.Abs(opts.AssetsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assets root path: %w", err)
	}
	logging.Info("  Assets root (absolute): %s", root)

	// A missing root is created; failures surface in the initial build
	if err := ensureRoot(root); err != nil {
		logging.Warn("  Assets root issue: %v", err)
	}
	logging.Info("  Recognized extensions: %s", strings.Join(mediatypes.VideoExtensions(), ", "))

	return &Config{
		Root:               root,
		Host:               opts.Host,
		Port:               opts.Port,
		IndexInterval:      opts.IndexInterval,
		Watch:              opts.Watch,
		LogStaticFiles:     opts.LogStaticFiles,
		LogHealthChecks:    opts.LogHealthChecks,
		ReloadRateLimit:    opts.ReloadRateLimit,
		StreamWriteTimeout: opts.StreamWriteTimeout,
	}, nil
}

func validateOptions(opts Options) error {
	switch {
	case strings.TrimSpace(opts.AssetsRoot) == "":
		return errors.New("assets root must not be empty")
	case opts.Port < 1 || opts.Port > 65535:
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", opts.Port)
	case opts.IndexInterval < 0:
		return fmt.Errorf("invalid index interval %v: must not be negative", opts.IndexInterval)
	case opts.ReloadRateLimit < 0:
		return fmt.Errorf("invalid reload rate limit %d: must not be negative", opts.ReloadRateLimit)
	case opts.StreamWriteTimeout < 0:
		return fmt.Errorf("invalid stream write timeout %v: must not be negative", opts.StreamWriteTimeout)
	}
	return nil
}

// ensureRoot creates the root when it does not exist yet
func ensureRoot(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("  Assets root missing, creating it")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("checking %s: %w", path, err)
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
