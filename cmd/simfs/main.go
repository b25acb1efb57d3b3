// Command simfs runs one command against a simulated file system image.
//
//	simfs -f image cmd args...
//
// writefile reads its payload from standard input, readfile writes to
// standard output.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/keks/simfs"
	"github.com/keks/simfs/meta"
	"github.com/pkg/errors"
)

const usage = "Usage: simfs -f file cmd arg1 arg2 ...\n"

var errUsage = errors.New("usage")

type command struct {
	nargs int
	args  string
	run   func(fs *simfs.FS, args []string) error
}

var commands = map[string]command{
	"initfs":     {0, "", func(fs *simfs.FS, _ []string) error { return fs.Format() }},
	"printfs":    {0, "", printfs},
	"checkfs":    {0, "", func(fs *simfs.FS, _ []string) error { return fs.Check() }},
	"createfile": {1, "NAME", func(fs *simfs.FS, args []string) error { return fs.Create(args[0]) }},
	"deletefile": {1, "NAME", func(fs *simfs.FS, args []string) error { return fs.Delete(args[0]) }},
	"writefile":  {3, "NAME OFFSET LENGTH", writefile},
	"readfile":   {3, "NAME OFFSET LENGTH", readfile},
}

func main() {
	var (
		image   = flag.String("f", "", "image file holding the file system")
		bs      = flag.Int("bs", simfs.DefaultBlockSize, "block size in bytes")
		files   = flag.Int("files", simfs.DefaultMaxFiles, "number of file entries")
		blocks  = flag.Int("blocks", simfs.DefaultMaxBlocks, "number of blocks")
		namelen = flag.Int("namelen", simfs.DefaultNameLen, "bytes in the name field, including the terminator")
		verbose = flag.Bool("v", false, "log debug output to stderr")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *image == "" || flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	opt := simfs.NewDefaultOptions()
	opt.Geometry = meta.Geometry{
		BlockSize: *bs,
		MaxFiles:  *files,
		MaxBlocks: *blocks,
		NameLen:   *namelen,
	}
	opt.Logger = logger

	os.Exit(run(*image, opt, flag.Arg(0), flag.Args()[1:]))
}

func run(image string, opt *simfs.Options, name string, args []string) int {
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: command %s not found\n", name)
		return 2
	}
	if len(args) != cmd.nargs {
		fmt.Fprintf(os.Stderr, "%s takes %d argument(s): %s %s\n%s", name, cmd.nargs, name, cmd.args, usage)
		return 2
	}

	fs, err := simfs.Open(image, opt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	err = cmd.run(fs, args)
	switch {
	case err == nil:
		return 0
	case simfs.IsUsage(err), errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		return 2
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}

func parseRange(args []string) (int64, int64, error) {
	off, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(errUsage, "not a valid offset: %q", args[1])
	}
	n, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(errUsage, "not a valid length: %q", args[2])
	}
	return off, n, nil
}

func writefile(fs *simfs.FS, args []string) error {
	off, n, err := parseRange(args)
	if err != nil {
		return err
	}
	return fs.Write(args[0], off, n, os.Stdin)
}

func readfile(fs *simfs.FS, args []string) error {
	off, n, err := parseRange(args)
	if err != nil {
		return err
	}
	return fs.Read(args[0], off, n, os.Stdout)
}

func printfs(fs *simfs.FS, _ []string) error {
	rep, err := fs.Inspect()
	if err != nil {
		return err
	}
	return render(os.Stdout, rep)
}

func render(w io.Writer, rep *simfs.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tNAME\tSIZE\tFIRST\tBLOCKS\tXXHASH")
	for _, f := range rep.Files {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%v\t%016x\n", f.Slot, f.Name, f.Size, f.First, f.Blocks, f.Digest)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "BLOCK\tSTATE\tNEXT")
	for i, nd := range rep.Nodes {
		state := "free"
		switch {
		case i < rep.Geometry.Reserved():
			state = "reserved"
		case nd.Allocated:
			state = "used"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i, state, nd.Next)
	}
	fmt.Fprintf(tw, "\n%d of %d blocks free\n", rep.Free, len(rep.Nodes))
	return tw.Flush()
}
