/*
Package config loads the repo-wide JSON configuration file and checks that
required environment variables (API keys, provider credentials) are present
before a command starts doing real work.

It mirrors the per-package Config/DefaultValueConfig/InitializeConfig shape
already used by src/pkg/echo-middleware: a package-level Cfg, filled from
defaults and overridden by whatever the JSON file provides.
*/
package config

import (
	"encoding/json"
	"os"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// Config is the repo-wide configuration shape, decoded from ./cfg/config.json
// (or whatever -config path a command was given).
type Config struct {
	LogLevel      string `json:"log_level,omitempty"`
	AWSRegion     string `json:"aws_region,omitempty"`
	S3Bucket      string `json:"s3_bucket,omitempty"`
	EmailProvider string `json:"email_provider,omitempty"`
	EmailSender   string `json:"email_sender,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		LogLevel:      "info",
		AWSRegion:     "us-east-1",
		EmailProvider: "mailgun",
	}
}

// Cfg holds the active configuration. It is populated with defaults before
// InitializeConfig runs, so packages that read it before main() calls
// InitializeConfig still see sane values instead of a zero Config.
var Cfg Config = DefaultValueConfig()

// packageName identifies this repo in log lines that reference "which
// package's config is this", matching the echo-middleware config log style.
const packageName = "expense-tracker"

// GetPackageName returns the module name used to label configuration logs.
func GetPackageName() string {
	return packageName
}

/*
InitializeConfig reads the JSON config file at configPath and merges it over
the defaults. A missing file is not an error — most commands can run on
defaults and environment variables alone — but a malformed file is fatal,
since at that point the user clearly meant to configure something.
*/
func InitializeConfig(configPath string) {
	defaultConfig := DefaultValueConfig()

	fileBytes, readErr := os.ReadFile(configPath)
	if readErr != nil {
		tl.Log(
			tl.Info, palette.Purple, "%s config is %s, keeping %s",
			packageName, "not provided", "default configuration",
		)
		return
	}

	localConfig := defaultConfig
	if unmarshalErr := json.Unmarshal(fileBytes, &localConfig); unmarshalErr != nil {
		tl.Log(
			tl.Error, palette.RedBold, "%s config at '%s' is %s: %s",
			packageName, configPath, "malformed JSON", unmarshalErr,
		)
		os.Exit(1)
	}

	Cfg = localConfig

	tl.Log(tl.Info, palette.Green, "%s config was %s, using '%s'", packageName, "provided", configPath)
	tl.LogJSON(tl.Verbose, palette.CyanDim, packageName+" configuration", Cfg)
}

/*
CheckIfEnvVarsPresent logs a warning for every named environment variable
that is unset or empty. It never exits on its own — callers that truly
require a credential should also wire util.RequiredFlag/EnsureFlags or check
the variable directly — this exists to surface likely-missing setup early
(e.g. a forgotten OPENAI_API_KEY before the first API call).
*/
func CheckIfEnvVarsPresent(names ...string) {
	for _, name := range names {
		if os.Getenv(name) == "" {
			tl.Log(tl.Warning, palette.YellowBold, "%s environment variable is %s", name, "not set")
		}
	}
}
