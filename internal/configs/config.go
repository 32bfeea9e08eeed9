package configs

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
)

//go:embed schema.cue
var Schema string

const (
	BackendText = "text"
	BackendLLVM = "llvm"
)

type Config struct {
	Module  string
	Backend string
	// Operators adds or overrides binary operator precedences.
	Operators map[string]int
	Log       LogConfig
}

type LogConfig struct {
	Level   string
	Journal bool
}

func Default() Config {
	return Config{
		Module:    "my cool jit",
		Backend:   BackendText,
		Operators: make(map[string]int),
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load starts from Default and applies every value the loader finds.
func Load(loader Loader) (Config, error) {
	config := Default()

	if err := loader.Validate(); err != nil {
		return config, err
	}

	fields := []struct {
		path   string
		target any
	}{
		{"module", &config.Module},
		{"backend", &config.Backend},
		{"operators", &config.Operators},
		{"log.level", &config.Log.Level},
		{"log.journal", &config.Log.Journal},
	}

	for _, field := range fields {
		err := loader.AssignFirst(field.path, field.target)
		if err != nil && !errors.Is(err, ErrValueNotFound) {
			return config, err
		}
	}

	return config, nil
}

// DefaultPaths lists the kscope.cue files that exist in the working
// directory and the user config directory, in that order.
func DefaultPaths() []string {
	var paths []string

	filenames := []string{
		"kscope.cue",
		".kscope.cue",
	}

	var dirs []string
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(configDir, "kscope"))
	}

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}

	return paths
}
