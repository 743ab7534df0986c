package cmd

import (
	"github.com/jmiller/grimoire/internal/server"
	"github.com/jmiller/grimoire/internal/source"
)

// ServeCmd represents the serve command
type ServeCmd struct {
	Addr string `help:"Address to listen on" default:":8080"`
}

func (s *ServeCmd) Run() error {
	// A fresh catalog per request snapshots the cookies at search start,
	// so cookies edited in the config file apply without a restart.
	return server.Run(s.Addr, func() server.Catalog {
		return source.FromConfig()
	})
}
