package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvRuntime = "LINESYNTH_RUNTIME"
	EnvDialect = "LINESYNTH_DIALECT"
	EnvOut     = "LINESYNTH_OUT"
	EnvVerbose = "LINESYNTH_VERBOSE"
)

// Env is the environment configuration of the command line tool. Flags
// override it.
type Env struct {
	Runtime string
	Dialect string
	OutDir  string
	Verbose bool
}

// Load reads a .env file from the working directory, if present, and then
// the process environment. Variables already set in the process take
// precedence over the file.
func Load() (Env, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds an Env from a lookup function and applies defaults.
func FromEnv(getenv func(string) string) (Env, error) {
	env := Env{
		Runtime: getenv(EnvRuntime),
		Dialect: getenv(EnvDialect),
		OutDir:  getenv(EnvOut),
	}
	if v := getenv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Env{}, fmt.Errorf("%s: %w", EnvVerbose, err)
		}
		env.Verbose = b
	}
	if env.Runtime == "" {
		env.Runtime = DefaultRuntime
	}
	if env.Dialect == "" {
		env.Dialect = DialectGo
	}
	if _, ok := OutputFileNames[env.Dialect]; !ok {
		return Env{}, fmt.Errorf("%s: unknown dialect %q", EnvDialect, env.Dialect)
	}
	if env.OutDir == "" {
		env.OutDir = DefaultOutDir
	}
	return env, nil
}
