package console

import (
	"testing"

	"github.com/holovati/nessie/ines"
	"github.com/holovati/nessie/ppu"
)

// loopROM builds a 16 KiB NROM image that spins on a self-jump at $8000,
// reset vector included, enough to exercise the master clock without the
// CPU ever jamming.
func loopROM() *ines.Rom {
	prg := make([]byte, 16384)
	prg[0] = 0x4C // JMP $8000
	prg[1] = 0x00
	prg[2] = 0x80

	resetVecOffset := 0x3FFC // $FFFC mirrors into the last 16 KiB bank
	prg[resetVecOffset] = 0x00
	prg[resetVecOffset+1] = 0x80

	return &ines.Rom{Mapper: 0, Mirroring: ines.MirrorHorizontal, PRG: prg, CHR: nil}
}

func TestPowerUpStartsAtResetVector(t *testing.T) {
	c, err := PowerUp(loopROM())
	if err != nil {
		t.Fatalf("PowerUp: %v", err)
	}
	if c.CPU.PC != 0x8000 {
		t.Fatalf("PC = %#04x, want $8000", c.CPU.PC)
	}
}

func TestStepFrameDeliversExactlyOneFrame(t *testing.T) {
	c, err := PowerUp(loopROM())
	if err != nil {
		t.Fatalf("PowerUp: %v", err)
	}

	frames := 0
	c.FrameCallback = func(buf *[ppu.Width * ppu.Height]ppu.RGB) { frames++ }

	c.StepFrame()
	if frames != 1 {
		t.Fatalf("frames delivered = %d, want 1", frames)
	}

	c.StepFrame()
	if frames != 2 {
		t.Fatalf("frames delivered after second StepFrame = %d, want 2", frames)
	}
}

func TestMasterClockDivisors(t *testing.T) {
	c, err := PowerUp(loopROM())
	if err != nil {
		t.Fatalf("PowerUp: %v", err)
	}

	// After 12 master ticks, the PPU has advanced 3 dots (12/4) and the
	// CPU exactly one cycle (12/12).
	for i := 0; i < 12; i++ {
		c.Tick()
	}
	if c.PPU.Scanline != 0 || c.PPU.Dot != 3 {
		t.Fatalf("PPU at scanline=%d dot=%d, want scanline=0 dot=3", c.PPU.Scanline, c.PPU.Dot)
	}
	if c.CPU.Ticks() != 1 {
		t.Fatalf("CPU ticks = %d, want 1", c.CPU.Ticks())
	}
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	c, err := PowerUp(loopROM())
	if err != nil {
		t.Fatalf("PowerUp: %v", err)
	}
	for i := 0; i < 1000; i++ {
		c.Tick()
	}

	buf, err := c.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	wantPC := c.CPU.PC
	wantTicks := c.CPU.Ticks()

	// Mutate state, then restore it.
	c.CPU.PC = 0x1234
	if err := c.LoadState(buf); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	if c.CPU.PC != wantPC {
		t.Fatalf("PC after restore = %#04x, want %#04x", c.CPU.PC, wantPC)
	}
	if c.CPU.Ticks() != wantTicks {
		t.Fatalf("ticks after restore = %d, want %d", c.CPU.Ticks(), wantTicks)
	}
}

func TestResetReturnsToResetVectorWithStackDecremented(t *testing.T) {
	c, err := PowerUp(loopROM())
	if err != nil {
		t.Fatalf("PowerUp: %v", err)
	}
	wantS := c.CPU.S - 3
	c.Reset()
	if c.CPU.PC != 0x8000 {
		t.Fatalf("PC after reset = %#04x, want $8000", c.CPU.PC)
	}
	if c.CPU.S != wantS {
		t.Fatalf("S after reset = %#02x, want %#02x", c.CPU.S, wantS)
	}
}
