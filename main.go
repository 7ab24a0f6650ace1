/*
Command-line front end for the cubemarch isosurface generator: builds a
density field, extracts the surface per chunk and writes the result.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/cubemarch/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML generation config (defaults apply when empty)")
	watch := flag.Bool("watch", false, "regenerate whenever the config file changes")
	flag.Parse()

	if *watch && *configPath == "" {
		panic("watch mode needs -config")
	}

	eng, err := engine.New(*configPath, *watch)
	if err != nil {
		panic(err)
	}

	if err := eng.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = eng.Shutdown()
	}()

	// run engine
	if err := eng.Run(); err != nil {
		panic(err)
	}

	_ = eng.Shutdown()
}
