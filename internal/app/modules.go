package app

import (
	"github.com/spotstack/launchgo/descriptions/spotdriver"
	"github.com/spotstack/launchgo/internal/registry"
)

// coreModules lists the launch descriptions built into the binary.
var coreModules = []registry.Module{
	&spotdriver.Module{},
}
