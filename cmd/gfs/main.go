package main

import (
	"os"

	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/mintel/grandfatherson/internal/app/gfs" // App implementation.
)

func main() {
	app := gfs.NewApp()
	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	app.Main(command, os.Stdin, os.Stdout)
}
