package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/chriskuehl/tap2tap/internal/errors"
)

// StdinName is the argument that selects standard input.
const StdinName = "-"

// File returns a Spec that opens the file at path.
func File(path string) Spec {
	return Spec{
		Name: path,
		Open: func(context.Context) (LineSource, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, errors.IO(path, "cannot open source", err)
			}
			return NewStream(path, f), nil
		},
	}
}

// Reader returns a Spec over an already open reader that tap2tap does not own,
// such as standard input. Closing the source leaves r open.
func Reader(name string, r io.Reader) Spec {
	return Spec{
		Name: name,
		Open: func(context.Context) (LineSource, error) {
			return NewStream(name, io.NopCloser(r)), nil
		},
	}
}

// Expand turns positional arguments into source specs. No arguments, or "-",
// select stdin. Arguments containing glob metacharacters are expanded with
// "**" support and sorted; a pattern that matches nothing is an error.
// Plain paths are not checked here; a missing file fails when it is opened.
func Expand(args []string, stdin io.Reader) ([]Spec, error) {
	if len(args) == 0 {
		return []Spec{Reader(StdinName, stdin)}, nil
	}

	var specs []Spec
	for _, arg := range args {
		switch {
		case arg == StdinName:
			specs = append(specs, Reader(StdinName, stdin))
		case isPattern(arg):
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.IO(arg, "invalid glob pattern", err)
			}
			if len(matches) == 0 {
				return nil, errors.IO(arg, "no sources match pattern", nil)
			}
			sort.Strings(matches)
			for _, m := range matches {
				specs = append(specs, File(m))
			}
		default:
			specs = append(specs, File(arg))
		}
	}
	return specs, nil
}

// isPattern reports whether arg should be glob-expanded. Existing paths are
// taken literally even if their names contain metacharacters.
func isPattern(arg string) bool {
	if _, err := os.Stat(arg); err == nil {
		return false
	}
	base := filepath.ToSlash(arg)
	for i := 0; i < len(base); i++ {
		switch base[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
