// A headless companion server for your music collection.
//
// This file is only here to make installing with go install easier. The
// actual implementation lives in the src directory.
package main

import (
	"github.com/calliopefm/calliope/src"
)

func main() {
	src.Main()
}
