package opts

import (
	"io"

	"github.com/walteh/rewriterc/pkg/catalog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool

	Stdout io.Writer
	Stderr io.Writer

	Catalog    *catalog.Catalog
	Logger     *log.Logger
	UserLogger *log.UserLogger
}

// ConfigPath returns the configured rule file, or the default one
func (o *RootOpts) ConfigPath() string {
	if o.ConfigFile == "" {
		return config.DefaultFileName
	}
	return o.ConfigFile
}
