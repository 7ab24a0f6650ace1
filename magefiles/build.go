//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the generator binary into bin/.
func (Build) Generator() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/cubemarch", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet and the full test suite.
func (Build) Check() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
