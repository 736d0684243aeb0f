/*
Headless testbed for the progress bar component: it runs the engine loop
and feeds the bar from a demo sequence or a watched file.
*/
package main

import (
	"os"

	"github.com/spaghettifunk/anima-progress/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
