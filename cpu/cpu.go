// Package cpu implements the 6502-derived CPU core: register file,
// addressing modes, the full 256-opcode dispatch table including the
// undocumented opcodes real software relies on, and the tick-credit
// execution loop that lets the system orchestrator interleave CPU
// progress with the PPU at single-tick granularity.
package cpu

import (
	"github.com/holovati/nessie/hwio"
	"github.com/holovati/nessie/log"
)

// Vector locations.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// CPU holds the 6502 register file and the pending-state needed to drive
// it one tick at a time.
type CPU struct {
	Bus *hwio.Bus

	A, X, Y, S uint8
	PC         uint16
	P          P

	remainingCycles int
	nmiPending      bool
	irqLine         bool
	ticks           uint64

	jammed bool
	jamOp  uint8
	jamAt  uint16

	// extraCycles accumulates penalty cycles (page-cross, branch-taken)
	// an opcode handler adds during its own exec call.
	extraCycles int
}

// New returns a CPU with no bus attached; call PowerOn before ticking it.
func New() *CPU {
	return &CPU{}
}

// PowerOn samples the reset vector into PC, sets S to $FD, P to I|U, and
// clears pending interrupts and stall credit.
func (c *CPU) PowerOn(bus *hwio.Bus) {
	c.Bus = bus
	c.A, c.X, c.Y = 0, 0, 0
	c.S = 0xFD
	c.P = FlagInterrupt | FlagUnused
	c.PC = bus.Read16(ResetVector)
	c.remainingCycles = 0
	c.nmiPending = false
	c.irqLine = false
	c.ticks = 0
	c.jammed = false

	log.ModCPU.InfoZ("power on").Hex16("PC", c.PC).End()
}

// Reset performs a soft reset: A, X, Y and the other status flags are left
// alone; the stack pointer is decremented by 3 (as real hardware does by
// issuing three dummy pushes), the interrupt-disable flag is forced on, PC
// is reloaded from the reset vector, and stall credit and a pending NMI are
// cleared.
func (c *CPU) Reset() {
	c.S -= 3
	c.P.set(FlagInterrupt, true)
	c.PC = c.Bus.Read16(ResetVector)
	c.remainingCycles = 0
	c.nmiPending = false
}

// NMI raises the edge-triggered non-maskable-interrupt latch. The
// orchestrator wires it as the PPU's NMI callback, so it is called once per
// vblank start with NMI enabled; the latch is cleared when the execution
// loop services it.
func (c *CPU) NMI() { c.nmiPending = true }

// SetIRQLine drives the maskable IRQ line level (asserted while any IRQ
// source wants service). Held for completeness of the interrupt model;
// nothing in this module, the input shim included, asserts it.
func (c *CPU) SetIRQLine(asserted bool) { c.irqLine = asserted }

// Stall adds n cycles of credit, consumed before any further instruction
// dispatch. Used by the OAM-DMA shim.
func (c *CPU) Stall(n int) { c.remainingCycles += n }

// Jammed reports whether the CPU has executed a KIL/JAM opcode. Once
// jammed, Tick is a no-op.
func (c *CPU) Jammed() bool { return c.jammed }

// State is the serializable subset of register and pending-interrupt
// state a save-state snapshot needs to resume execution exactly.
type State struct {
	A, X, Y, S uint8
	PC         uint16
	P          uint8

	RemainingCycles int
	NMIPending      bool
	IRQLine         bool
	Ticks           uint64
}

// State captures the CPU's resumable state.
func (c *CPU) State() State {
	return State{
		A: c.A, X: c.X, Y: c.Y, S: c.S,
		PC: c.PC, P: uint8(c.P),

		RemainingCycles: c.remainingCycles,
		NMIPending:      c.nmiPending,
		IRQLine:         c.irqLine,
		Ticks:           c.ticks,
	}
}

// SetState restores a previously captured State. The bus must already be
// attached via PowerOn.
func (c *CPU) SetState(s State) {
	c.A, c.X, c.Y, c.S = s.A, s.X, s.Y, s.S
	c.PC = s.PC
	c.P = P(s.P)

	c.remainingCycles = s.RemainingCycles
	c.nmiPending = s.NMIPending
	c.irqLine = s.IRQLine
	c.ticks = s.Ticks
	c.jammed = false
}

// Ticks returns the monotonically increasing tick counter, used by the
// DMA shim to compute OAM-DMA stall parity.
func (c *CPU) Ticks() uint64 { return c.ticks }

// Tick advances the CPU by one master-clock-divided cycle, per the
// execution loop contract: drain any outstanding stall/instruction credit
// first; otherwise service a latched NMI; otherwise fetch, decode and
// execute one instruction and credit (cycles-1) remaining ticks.
func (c *CPU) Tick() {
	c.ticks++

	if c.jammed {
		return
	}

	if c.remainingCycles > 0 {
		c.remainingCycles--
		return
	}

	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(NMIVector, false)
		c.remainingCycles = 7 - 1
		return
	}

	if c.irqLine && !c.P.has(FlagInterrupt) {
		c.serviceInterrupt(IRQVector, false)
		c.remainingCycles = 7 - 1
		return
	}

	c.step()
}

// step fetches and executes exactly one instruction, advancing PC by its
// length and setting remainingCycles to (base cycles + penalties − 1).
func (c *CPU) step() {
	opcode := c.Bus.Read8(c.PC)
	info := opcodeTable[opcode]

	if info.exec == nil {
		c.jam(opcode)
		return
	}

	op := c.resolve(info.mode)
	extra := c.dispatch(&info, op)

	c.PC += uint16(info.bytes)
	c.remainingCycles = int(info.cycles) + extra - 1
}

// dispatch wraps info.exec to collect the read-mode page-cross penalty
// that applies uniformly to the handful of opcodes whose documented cycle
// count already excludes it (the table stores the *base* cycle count; the
// handler is responsible for adding branch/extra penalties via the
// returned value through c.extraCycles, a field cleared before each call).
func (c *CPU) dispatch(info *opInfo, op *operand) int {
	c.extraCycles = 0
	info.exec(c, op)
	return c.extraCycles
}
