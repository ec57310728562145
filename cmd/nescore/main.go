// Command nescore is the reference host for the emulator core: an
// SDL2/GL frontend plus a kong-parsed CLI for running ROMs, printing
// cartridge headers, and reporting the binary's version.
package main

import "os"

func main() {
	ctx, _ := parseArgs(os.Args[1:])
	checkf(ctx.Run(), "command failed")
}
