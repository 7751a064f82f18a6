package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultHotkey    = "Ctrl+Cmd+A"
	DefaultCancelKey = "Esc"
	DefaultOutputDir = "~/Downloads/Snapshot"
	DefaultDimAlpha  = 0.22
	DefaultScale     = 1.0

	EnvPathVar   = "SNAPSHOT_ENV"
	StyleFileVar = "STYLE_FILE"
)

type LoadOptions struct {
	OutputDirOverride string
	StyleFileOverride string
}

type Config struct {
	Hotkey             string
	CancelKey          string
	OutputDir          string
	DimAlpha           float64
	DisplayScale       float64
	EnableFileLogging  bool
	SingleInstancePort int
	StyleFile          string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SNAPSHOT_ENV env var as a path to a config file
	envPath := resolveEnvPath()
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	outputDir := getEnvWithDefault("OUTPUT_DIR", DefaultOutputDir)
	if o := strings.TrimSpace(opts.OutputDirOverride); o != "" {
		outputDir = o
	}

	cfg := &Config{
		Hotkey:             getEnvWithDefault("HOTKEY", DefaultHotkey),
		CancelKey:          getEnvWithDefault("CANCEL_KEY", DefaultCancelKey),
		OutputDir:          ExpandHome(outputDir),
		DimAlpha:           getFloatInRange("DIM_ALPHA", DefaultDimAlpha, 0, 1),
		DisplayScale:       getFloatInRange("DISPLAY_SCALE", DefaultScale, 0.5, 4),
		EnableFileLogging:  strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		SingleInstancePort: getIntWithDefault("SINGLEINSTANCE_PORT", 0),
		StyleFile:          resolveStyleFile(opts, dotenvValues),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

// resolveStyleFile prefers the override, then the .env file, then the
// process environment. A relative path in the .env file is resolved against
// the .env file's directory.
func resolveStyleFile(opts LoadOptions, dotenvValues map[string]string) string {
	if o := strings.TrimSpace(opts.StyleFileOverride); o != "" {
		return ExpandHome(o)
	}
	if p := strings.TrimSpace(dotenvValues[StyleFileVar]); p != "" {
		return ExpandHome(p)
	}
	return ExpandHome(strings.TrimSpace(os.Getenv(StyleFileVar)))
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getFloatInRange(key string, defaultValue, min, max float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f >= min && f <= max {
			return f
		}
	}
	return defaultValue
}
