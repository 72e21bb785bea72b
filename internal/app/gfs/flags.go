package gfs

import (
	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/mintel/grandfatherson/internal/pkg/cmd" // Common command line app tools.
)

const defaultLogLevel = "WARN"

// Names of the gfs commands.
const (
	CommandKeep   = "keep"
	CommandDelete = "delete"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Flags holds command line flags for the gfs App.
type Flags struct {
	// Timestamps passed as positional arguments.
	// If empty, timestamps are read from stdin.
	Times []string

	// If set, stdin is a JSON document and the timestamps
	// are the values this gjson path selects.
	JSONPath string

	// Output format, one of OutputText or OutputJSON.
	Output string

	*cmd.PolicyFlags
	*cmd.LoggingFlags
}

// NewFlags returns a new Flags.
func NewFlags(app *kingpin.Application) *Flags {
	var f Flags

	app.Command(CommandKeep, "Print the timestamps to keep, oldest first.").
		Default().
		Arg("timestamp", "Snapshot timestamps. Read from stdin, one per line, if not given.").
		StringsVar(&f.Times)

	app.Command(CommandDelete, "Print the timestamps to delete, in input order.").
		Arg("timestamp", "Snapshot timestamps. Read from stdin, one per line, if not given.").
		StringsVar(&f.Times)

	app.Flag("json-path", "Read stdin as a JSON document and take timestamps from this path (gjson syntax).").
		PlaceHolder("PATH").
		StringVar(&f.JSONPath)

	app.Flag("output", "Output format.").
		Short('o').
		Default(OutputText).
		EnumVar(&f.Output, OutputText, OutputJSON)

	f.PolicyFlags = cmd.NewPolicyFlags(app)
	f.LoggingFlags = cmd.NewLoggingFlags(app, defaultLogLevel)

	return &f
}
