// Command portal is the student terminal client: it lists subjects and exam boards and
// enrolls in or cancels exams against the portal API, or against a built-in sample
// catalog with --offline.
package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
)

func main() {
	cmd := newRootCmd(defaultGateway)
	if err := cmd.Execute(); err != nil {
		// Failed actions already reported their message through the notifier.
		if !errors.Is(err, errActionFailed) {
			color.New(color.FgRed).Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
