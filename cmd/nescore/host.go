package main

import (
	"context"
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sync/errgroup"

	"github.com/holovati/nessie/console"
	"github.com/holovati/nessie/ines"
	"github.com/holovati/nessie/input"
	"github.com/holovati/nessie/log"
	"github.com/holovati/nessie/ppu"
)

// keymap is the default host-key to NES-button binding for controller 1,
// in the absence of a loaded console.InputConfig.
var keymap = map[sdl.Scancode]uint8{
	sdl.SCANCODE_Z:      input.ButtonA,
	sdl.SCANCODE_X:      input.ButtonB,
	sdl.SCANCODE_RSHIFT: input.ButtonSelect,
	sdl.SCANCODE_RETURN: input.ButtonStart,
	sdl.SCANCODE_UP:     input.ButtonUp,
	sdl.SCANCODE_DOWN:   input.ButtonDown,
	sdl.SCANCODE_LEFT:   input.ButtonLeft,
	sdl.SCANCODE_RIGHT:  input.ButtonRight,
}

// Run powers up the ROM named by cmd, opens an SDL2/GL window and drives
// the console at real-time pace, blitting each completed frame into a
// texture. This is the library's reference host: it demonstrates the
// external interfaces of the core without expanding its own scope.
func (cmd *RunCmd) Run() error {
	rom, err := ines.Open(cmd.RomPath)
	if err != nil {
		return fmt.Errorf("nescore: failed to open ROM: %w", err)
	}

	con, err := console.PowerUp(rom)
	if err != nil {
		return fmt.Errorf("nescore: %w", err)
	}
	if cmd.Trace != nil {
		defer cmd.Trace.Close()
	}

	win, err := newHostWindow("nescore", ppu.Width, ppu.Height, cmd.Scale)
	if err != nil {
		return fmt.Errorf("nescore: failed to open window: %w", err)
	}
	defer win.close()

	con.FrameCallback = func(buf *[ppu.Width * ppu.Height]ppu.RGB) {
		win.blit(buf)
	}

	group, ctx := errgroup.WithContext(context.Background())
	group.Go(func() error {
		return runLoop(ctx, con, win, cmd)
	})
	return group.Wait()
}

// runLoop is the single-threaded emulation loop: poll events, sample
// keyboard into the console's input shim, step one frame, present.
func runLoop(ctx context.Context, con *console.Console, win *hostWindow, cmd *RunCmd) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		quit := win.pollEvents()
		if quit {
			return nil
		}

		con.Input.Snapshot = input.Snapshot{P1: win.sampleButtons()}

		if cmd.Trace != nil {
			fmt.Fprintln(cmd.Trace, con.CPU.TraceLine())
		}

		con.StepFrame()
		win.present()
	}
}

// hostWindow owns the SDL window, GL context and the single texture the
// frame buffer is blitted into.
type hostWindow struct {
	win     *sdl.Window
	ctx     sdl.GLContext
	texture uint32
	keys    map[sdl.Scancode]uint8
}

func newHostWindow(title string, texw, texh, scale int) (*hostWindow, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)

	win, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(texw*scale), int32(texh*scale),
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	glctx, err := win.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("create GL context: %w", err)
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init GL: %w", err)
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, int32(texw), int32(texh), 0, gl.RGB, gl.UNSIGNED_BYTE, nil)

	return &hostWindow{win: win, ctx: glctx, texture: texture, keys: keymap}, nil
}

func (w *hostWindow) close() {
	sdl.GLDeleteContext(w.ctx)
	w.win.Destroy()
	sdl.Quit()
}

// pollEvents drains pending SDL events and reports whether the window was
// asked to close.
func (w *hostWindow) pollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			return true
		}
	}
	return false
}

// sampleButtons reads the current keyboard state and reports it as a
// controller-1 button byte, MSB-first per input.Snapshot's convention.
func (w *hostWindow) sampleButtons() uint8 {
	kb := sdl.GetKeyboardState()
	var p1 uint8
	for key, button := range w.keys {
		if kb[key] != 0 {
			p1 |= button
		}
	}
	return p1
}

// blit uploads buf as the texture's contents. The PPU's RGB struct is
// laid out as three consecutive bytes per pixel, matching gl.RGB exactly,
// so no conversion is needed before handing the slice to TexSubImage2D.
func (w *hostWindow) blit(buf *[ppu.Width * ppu.Height]ppu.RGB) {
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(ppu.Width), int32(ppu.Height),
		gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(&buf[0]))
}

func (w *hostWindow) present() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.Enable(gl.TEXTURE_2D)
	gl.Begin(gl.QUADS)
	gl.TexCoord2f(0, 0)
	gl.Vertex2f(-1, 1)
	gl.TexCoord2f(1, 0)
	gl.Vertex2f(1, 1)
	gl.TexCoord2f(1, 1)
	gl.Vertex2f(1, -1)
	gl.TexCoord2f(0, 1)
	gl.Vertex2f(-1, -1)
	gl.End()
	w.win.GLSwap()

	log.ModHost.DebugZ("frame presented").End()
}
