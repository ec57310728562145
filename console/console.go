// Package console owns the master clock and wires together the CPU, PPU,
// cartridge mapper and controller shim into a runnable system, driven one
// master tick at a time.
package console

import (
	"fmt"

	"github.com/holovati/nessie/cpu"
	"github.com/holovati/nessie/hwio"
	"github.com/holovati/nessie/ines"
	"github.com/holovati/nessie/input"
	"github.com/holovati/nessie/log"
	"github.com/holovati/nessie/mapper"
	"github.com/holovati/nessie/ppu"
)

// internalRAMSize is the 2 KiB of work RAM mirrored four times across
// $0000-$1FFF.
const internalRAMSize = 0x0800

// Console is the powered-up system: CPU, PPU and cartridge mapper wired
// onto their buses, plus the controller/OAM-DMA shim. Callers drive it
// with Tick or StepFrame; the host supplies button state through Input
// before each call.
type Console struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	Mapper mapper.Mapper
	Input  *input.Shim

	CPUBus *hwio.Bus
	PPUBus *hwio.Bus

	// FrameCallback is invoked once per completed frame with the PPU's
	// frame buffer, forwarded from ppu.PPU.FrameCallback. Set it before
	// the first StepFrame/Tick call.
	FrameCallback func(buf *[ppu.Width * ppu.Height]ppu.RGB)

	wram *hwio.RAM

	masterTick uint64
	frameReady bool
}

// PowerUp decodes rom's mapper, attaches every device to fresh CPU/PPU
// buses, and brings the CPU up from the reset vector.
func PowerUp(rom *ines.Rom) (*Console, error) {
	cpuBus := hwio.NewBus("cpu")
	ppuBus := hwio.NewBus("ppu")

	wram := hwio.NewRAM("internal-ram", internalRAMSize)
	for base := uint32(0x0000); base < 0x2000; base += internalRAMSize {
		cpuBus.Attach(wram, base, internalRAMSize)
	}

	p := ppu.New()
	for base := uint32(0x2000); base < 0x4000; base += 8 {
		cpuBus.Attach(p, base, 8)
	}

	m, err := mapper.Load(rom, cpuBus, ppuBus)
	if err != nil {
		return nil, fmt.Errorf("console: power up failed: %w", err)
	}

	c := cpu.New()

	ip := input.New()
	ip.Attach(cpuBus, c)

	p.PowerOn(ppuBus)
	c.PowerOn(cpuBus)
	p.NMI = c.NMI

	con := &Console{
		CPU:    c,
		PPU:    p,
		Mapper: m,
		Input:  ip,
		CPUBus: cpuBus,
		PPUBus: ppuBus,
		wram:   wram,
	}
	p.FrameCallback = con.onFrame

	log.ModConsole.InfoZ("power on").Str("mapper", m.Name()).Hex16("PC", c.PC).End()
	return con, nil
}

func (c *Console) onFrame(buf *[ppu.Width * ppu.Height]ppu.RGB) {
	c.frameReady = true
	if c.FrameCallback != nil {
		c.FrameCallback(buf)
	}
}

// Reset performs a soft reset: the CPU's reset sequence runs, matching
// real hardware, where the PPU and cartridge carry no reset-line behavior
// this core models.
func (c *Console) Reset() {
	c.CPU.Reset()
	log.ModConsole.InfoZ("soft reset").End()
}

// Tick advances the master clock by one tick: every 4 ticks the PPU
// advances one dot, every 12 ticks the CPU advances one cycle and the
// input shim pumps one byte of any in-flight OAM-DMA transfer. Within a
// tick where both divisors align, the PPU always runs first, so the CPU
// sees an NMI the PPU raises on that very tick no earlier than its next
// cycle.
func (c *Console) Tick() {
	c.masterTick++
	if c.masterTick%4 == 0 {
		c.PPU.Tick()
	}
	if c.masterTick%12 == 0 {
		c.Input.Tick()
		c.CPU.Tick()
	}
}

// StepFrame runs the master clock until the PPU has delivered exactly one
// frame through FrameCallback, then returns. The host samples controller
// state into Input.Snapshot before calling this.
func (c *Console) StepFrame() {
	c.frameReady = false
	for !c.frameReady {
		c.Tick()
	}
}

// Ticks returns the number of master-clock ticks elapsed since power-on.
func (c *Console) Ticks() uint64 { return c.masterTick }
