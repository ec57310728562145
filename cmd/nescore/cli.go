package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/holovati/nessie/log"
)

// CLI is the kong-parsed command tree: run a ROM, print its header, or
// print the binary's version.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Run a ROM in the emulator." default:"1"`
	RomInfo RomInfoCmd `cmd:"" help:"Print a cartridge's decoded header." name:"rom-info"`
	Version VersionCmd `cmd:"" help:"Print the binary's version."`

	Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
}

// RunCmd powers up a ROM and drives it through the SDL2 host loop.
type RunCmd struct {
	RomPath string   `arg:"" name:"rom" help:"Path to an iNES (.nes) ROM file." type:"existingfile"`
	Trace   *outfile `name:"trace" help:"Write CPU disassembly trace to FILE|stdout|stderr."`
	Scale   int      `name:"scale" help:"Window scale factor." default:"3"`
}

// RomInfoCmd decodes and prints a cartridge header without running it.
type RomInfoCmd struct {
	RomPath string `arg:"" name:"rom" help:"Path to an iNES (.nes) ROM file." type:"existingfile"`
}

// VersionCmd prints the binary's version string.
type VersionCmd struct{}

var version = "dev"

func (VersionCmd) Run() error {
	fmt.Println("nescore", version)
	return nil
}

var cliVars = kong.Vars{
	"log_help": "Enable debug logging for the given comma-separated modules, or 'all'/'no'.",
}

func parseArgs(args []string) (*kong.Context, *CLI) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("nescore"),
		kong.Description("Cycle-accurate 8-bit console emulator core."),
		kong.UsageOnError(),
		cliVars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	return ctx, &cli
}

// logModMask decodes --log into a log.ModuleMask, implementing
// kong.MapperValue. Decode has a value receiver, so the CLI field itself
// stays zero; the decoded mask is applied to the log package directly.
type logModMask log.ModuleMask

func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog, allLogs := false, false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %q", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs || lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}
	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}
	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

// outfile decodes FILE|stdout|stderr into a writable, closable sink.
type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "fatal error:\n\t%s: %s\n", fmt.Sprintf(format, args...), err)
	os.Exit(1)
}
