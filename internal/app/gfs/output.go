package gfs

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors" // Wrap errors with stacktrace.
)

// writeTimes writes times to out in the given format.
func writeTimes(out io.Writer, format string, times []time.Time) error {
	strs := make([]string, len(times))
	for i, t := range times {
		strs[i] = t.Format(time.RFC3339Nano)
	}
	switch format {
	case OutputJSON:
		if err := json.NewEncoder(out).Encode(strs); err != nil {
			return errors.Wrap(err, "error writing output")
		}
	case OutputText, "":
		for _, s := range strs {
			if _, err := fmt.Fprintln(out, s); err != nil {
				return errors.Wrap(err, "error writing output")
			}
		}
	default:
		return errors.Errorf("unknown output format %q", format)
	}
	return nil
}
