//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Generates once with the checked-in example config.
func (Run) Generator() error {
	fmt.Println("Run generator...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", "cubemarch.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Generates and keeps watching the config for edits.
func (Run) Watch() error {
	fmt.Println("Run generator in watch mode...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", "cubemarch.toml", "-watch"), withStream()); err != nil {
		return err
	}
	return nil
}
