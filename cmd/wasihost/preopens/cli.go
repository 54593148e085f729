package preopens

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/pgavlin/wasihost/wasi"
)

// Preopen specs are of the form (guest=)host(,flags). Each flag adds a named
// right to the grant; "=name" replaces the accumulated set and "-name"
// removes a right. The "inherit:" prefix targets the inheriting set instead
// of the base rights.
var preopenRE = regexp.MustCompile(`^([^=]+=)?([^,]+)(,.+)?$`)

var rightSets = map[string]wasi.Rights{
	"all":  wasi.AllRights,
	"dir":  wasi.DirectoryRights,
	"file": wasi.FileRights,
	"ro":   wasi.ReadOnlyRights,
}

var rightNames = []string{
	"fd_datasync",
	"fd_read",
	"fd_seek",
	"fd_fdstat_set_flags",
	"fd_sync",
	"fd_tell",
	"fd_write",
	"fd_advise",
	"fd_allocate",
	"path_create_directory",
	"path_create_file",
	"path_link_source",
	"path_link_target",
	"path_open",
	"fd_readdir",
	"path_readlink",
	"path_rename_source",
	"path_rename_target",
	"path_filestat_get",
	"path_filestat_set_size",
	"path_filestat_set_times",
	"fd_filestat_get",
	"fd_filestat_set_size",
	"fd_filestat_set_times",
	"path_symlink",
	"path_remove_directory",
	"path_unlink_file",
	"poll_fd_readwrite",
	"sock_shutdown",
}

func lookup(name string) (wasi.Rights, bool) {
	if r, ok := rightSets[name]; ok {
		return r, true
	}
	for i, n := range rightNames {
		if n == name {
			return wasi.Rights(1) << uint(i), true
		}
	}
	return 0, false
}

func rightsString(r wasi.Rights) string {
	if r == wasi.AllRights {
		return "all"
	}

	var names []string
	for i, n := range rightNames {
		if r&(wasi.Rights(1)<<uint(i)) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, " ")
}

func parseOne(s string) (wasi.Preopen, error) {
	match := preopenRE.FindStringSubmatch(s)
	if len(match) == 0 {
		return wasi.Preopen{}, fmt.Errorf("malformed preopen '%v': preopens must be of the form (guest=)host(,flags)", s)
	}

	to, from := strings.TrimSuffix(match[1], "="), match[2]
	if to == "" {
		to = from
	}
	preopen := wasi.Preopen{
		FSPath:  from,
		Path:    to,
		Rights:  wasi.AllRights,
		Inherit: wasi.AllRights,
	}

	if match[3] == "" {
		return preopen, nil
	}
	for _, f := range strings.Split(strings.TrimPrefix(match[3], ","), ",") {
		r := &preopen.Rights
		if strings.HasPrefix(f, "inherit:") {
			r, f = &preopen.Inherit, f[len("inherit:"):]
		}

		switch {
		case strings.HasPrefix(f, "="):
			right, ok := lookup(f[1:])
			if !ok {
				return wasi.Preopen{}, fmt.Errorf("unknown preopen flag '%v'", f)
			}
			*r = right
		case strings.HasPrefix(f, "-"):
			right, ok := lookup(f[1:])
			if !ok {
				return wasi.Preopen{}, fmt.Errorf("unknown preopen flag '%v'", f)
			}
			*r &^= right
		default:
			right, ok := lookup(f)
			if !ok {
				return wasi.Preopen{}, fmt.Errorf("unknown preopen flag '%v'", f)
			}
			*r |= right
		}
	}

	return preopen, nil
}

// Parse parses a list of preopen specs. It also backs the pflag.Value used
// by embedding commands.
func Parse(specs []string) ([]wasi.Preopen, error) {
	values := make([]wasi.Preopen, len(specs))
	for i, s := range specs {
		p, err := parseOne(s)
		if err != nil {
			return nil, err
		}
		values[i] = p
	}
	return values, nil
}

type Preopens struct {
	values  []wasi.Preopen
	strings []string
}

func (p *Preopens) Values() []wasi.Preopen {
	return p.values
}

func (p *Preopens) String() string {
	return strings.Join(p.strings, ";")
}

func (p *Preopens) Set(s string) error {
	preopen, err := parseOne(s)
	if err != nil {
		return err
	}
	p.values, p.strings = append(p.values, preopen), append(p.strings, s)
	return nil
}

func (p *Preopens) Type() string {
	return "mount"
}

type grant struct {
	Path    string `csv:"path"`
	FSPath  string `csv:"fspath"`
	Rights  string `csv:"rights"`
	Inherit string `csv:"inherit"`
}

func dump(w *csv.Writer, values []wasi.Preopen) error {
	enc := csvutil.NewEncoder(w)
	for _, p := range values {
		err := enc.Encode(grant{
			Path:    p.Path,
			FSPath:  p.FSPath,
			Rights:  rightsString(p.Rights),
			Inherit: rightsString(p.Inherit),
		})
		if err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "preopens [spec ...]",
		Short: "Parse preopen specs",
		Long:  "Parse preopen specs of the form (guest=)host(,flags) and print the resulting capability grants as CSV.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("expected at least one argument")
			}

			values, err := Parse(args)
			if err != nil {
				return err
			}
			return dump(csv.NewWriter(os.Stdout), values)
		},
	}
}
