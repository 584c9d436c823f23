package app

import (
	"github.com/specialistvlad/proteoanalyzer/internal/registry"
	"github.com/specialistvlad/proteoanalyzer/modules/omicscope"
)

// coreModules is the definitive list of all modules that are compiled into
// the proteoanalyzer binary.
var coreModules = []registry.Module{
	&omicscope.Module{},
}
