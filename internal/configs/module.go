package configs

import (
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

// Paths are the configuration files to load. When none are given the
// default locations are searched.
type Paths []string

func (Module) Paths() Paths {
	return nil
}

func (Module) Loader(paths Paths) Loader {
	if len(paths) == 0 {
		paths = DefaultPaths()
	}

	return NewLoader(paths, Schema)
}
