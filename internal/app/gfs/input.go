package gfs

import (
	"bufio"
	"encoding/json"
	"io"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"    // Wrap errors with stacktrace.
	"github.com/tidwall/gjson" // Dynamic JSON parsing.
)

// readValues returns the timestamps to process. Positional args win.
// Otherwise in is read as lines, or as JSON if jsonPath is set.
// Values are passed to retention.Parse as is.
func readValues(in io.Reader, args []string, jsonPath string) ([]interface{}, error) {
	if len(args) > 0 {
		if jsonPath != "" {
			return nil, errors.New("--json-path reads timestamps from stdin, not arguments")
		}
		values := make([]interface{}, len(args))
		for i, a := range args {
			values[i] = a
		}
		return values, nil
	}
	if jsonPath != "" {
		return readJSON(in, jsonPath)
	}
	return readLines(in)
}

func readLines(in io.Reader) ([]interface{}, error) {
	var values []interface{}
	s := bufio.NewScanner(in)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		values = append(values, line)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading timestamps")
	}
	return values, nil
}

func readJSON(in io.Reader, path string) ([]interface{}, error) {
	data, err := ioutil.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON")
	}
	if !gjson.Valid(string(data)) {
		return nil, errors.New("input is not valid JSON")
	}
	result := gjson.ParseBytes(data).Get(path)
	if !result.Exists() {
		return nil, errors.Errorf("nothing found at JSON path %q", path)
	}
	if !result.IsArray() {
		return []interface{}{jsonValue(result)}, nil
	}
	var values []interface{}
	result.ForEach(func(_, v gjson.Result) bool {
		values = append(values, jsonValue(v))
		return true
	})
	return values, nil
}

// jsonValue keeps numbers as json.Number so epoch milliseconds
// aren't rounded through float64.
func jsonValue(r gjson.Result) interface{} {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return json.Number(r.Raw)
	default:
		return r.Value()
	}
}
