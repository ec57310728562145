package cpu

import (
	"testing"

	"github.com/holovati/nessie/hwio"
)

func newTestCPU() (*CPU, *hwio.Bus, *hwio.RAM) {
	bus := hwio.NewBus("cpu")
	ram := hwio.NewRAM("ram", 0x10000)
	bus.Attach(ram, 0x0000, 0x10000)
	c := New()
	ram.Bytes()[0xFFFC] = 0x00
	ram.Bytes()[0xFFFD] = 0x80
	c.PowerOn(bus)
	return c, bus, ram
}

func loadProgram(ram *hwio.RAM, addr uint16, bytes ...uint8) {
	ram.WriteBuffer(addr, bytes)
}

func runUntilIdle(c *CPU, instructions int) {
	for i := 0; i < instructions; i++ {
		c.Tick()
		for c.remainingCycles > 0 {
			c.Tick()
		}
	}
}

func TestPowerOnVector(t *testing.T) {
	c, _, _ := newTestCPU()
	if c.PC != 0x8000 {
		t.Fatalf("PC = %#04x, want 0x8000", c.PC)
	}
	if c.S != 0xFD {
		t.Fatalf("S = %#02x, want 0xfd", c.S)
	}
	if c.P != FlagInterrupt|FlagUnused {
		t.Fatalf("P = %#02x, want 0x24", uint8(c.P))
	}
}

// S1: LDA #$FF; ADC #$01 -> A=0, C=1, Z=1, V=0, N=0.
func TestScenarioS1Arithmetic(t *testing.T) {
	c, _, ram := newTestCPU()
	loadProgram(ram, 0x8000, 0xA9, 0xFF, 0x69, 0x01)
	runUntilIdle(c, 2)

	if c.A != 0x00 {
		t.Fatalf("A = %#02x, want 0x00", c.A)
	}
	if !c.P.has(FlagCarry) || !c.P.has(FlagZero) || c.P.has(FlagOverflow) || c.P.has(FlagNegative) {
		t.Fatalf("P = %s, want carry+zero only", c.P)
	}
}

// S2: at PC=$0080, BEQ $+2 with Z=1 -> PC=$0084, 3 cycles.
func TestScenarioS2BranchTiming(t *testing.T) {
	c, _, ram := newTestCPU()
	loadProgram(ram, 0x0080, 0xF0, 0x02)
	c.PC = 0x0080
	c.P.set(FlagZero, true)

	c.Tick() // dispatches the instruction, credits remaining cycles
	total := 1
	for c.remainingCycles > 0 {
		c.Tick()
		total++
	}

	if c.PC != 0x0084 {
		t.Fatalf("PC = %#04x, want 0x0084", c.PC)
	}
	if total != 3 {
		t.Fatalf("cycles = %d, want 3", total)
	}
}

// S3: indirect JMP page-wrap bug.
func TestScenarioS3IndirectJMPBug(t *testing.T) {
	c, _, ram := newTestCPU()
	ram.Bytes()[0x30FF] = 0x40
	ram.Bytes()[0x3000] = 0x80
	ram.Bytes()[0x3100] = 0x50
	loadProgram(ram, 0x8000, 0x6C, 0xFF, 0x30)
	runUntilIdle(c, 1)

	if c.PC != 0x8040 {
		t.Fatalf("PC = %#04x, want 0x8040", c.PC)
	}
}

func TestStackPushPullRoundTrip(t *testing.T) {
	c, _, _ := newTestCPU()
	s0 := c.S
	c.push8(0x42)
	if got := c.pull8(); got != 0x42 {
		t.Fatalf("pull8 = %#02x, want 0x42", got)
	}
	if c.S != s0 {
		t.Fatalf("S = %#02x, want %#02x (restored)", c.S, s0)
	}
}

func TestBranchNotTakenCostsTwoCycles(t *testing.T) {
	c, _, ram := newTestCPU()
	loadProgram(ram, 0x8000, 0xF0, 0x10) // BEQ, Z=0
	c.P.set(FlagZero, false)

	c.Tick()
	total := 1
	for c.remainingCycles > 0 {
		c.Tick()
		total++
	}
	if total != 2 {
		t.Fatalf("cycles = %d, want 2", total)
	}
	if c.PC != 0x8002 {
		t.Fatalf("PC = %#04x, want 0x8002", c.PC)
	}
}

func TestNMIServiceSequence(t *testing.T) {
	c, _, ram := newTestCPU()
	ram.Bytes()[0xFFFA] = 0x00
	ram.Bytes()[0xFFFB] = 0x90
	loadProgram(ram, 0x8000, 0xEA) // NOP, never reached first tick
	c.NMI()

	c.Tick() // services the NMI instead of dispatching NOP
	if c.PC != 0x9000 {
		t.Fatalf("PC = %#04x, want 0x9000 (NMI vector)", c.PC)
	}
	if !c.P.has(FlagInterrupt) {
		t.Fatalf("I flag not set after NMI")
	}
}

func TestJAMHalts(t *testing.T) {
	c, _, ram := newTestCPU()
	loadProgram(ram, 0x8000, 0x02) // JAM
	c.Tick()
	if !c.Jammed() {
		t.Fatalf("CPU not jammed after KIL opcode")
	}
	pc := c.PC
	c.Tick()
	if c.PC != pc {
		t.Fatalf("jammed CPU advanced PC")
	}
}

func TestAllOpcodeSlotsHaveAHandlerOrAreJAM(t *testing.T) {
	jam := map[uint8]bool{
		0x02: true, 0x12: true, 0x22: true, 0x32: true,
		0x42: true, 0x52: true, 0x62: true, 0x72: true,
		0x92: true, 0xB2: true, 0xD2: true, 0xF2: true,
	}
	for i := 0; i < 256; i++ {
		op := uint8(i)
		has := opcodeTable[op].exec != nil
		if jam[op] && has {
			t.Errorf("opcode %#02x expected to be JAM but has a handler", op)
		}
		if !jam[op] && !has {
			t.Errorf("opcode %#02x has no handler", op)
		}
	}
}

func TestSBXDeterministic(t *testing.T) {
	c, _, ram := newTestCPU()
	c.A = 0xFF
	c.X = 0x0F
	loadProgram(ram, 0x8000, 0xCB, 0x05) // SBX #$05
	runUntilIdle(c, 1)
	if c.X != 0x0A {
		t.Fatalf("X = %#02x, want 0x0a", c.X)
	}
	if !c.P.has(FlagCarry) {
		t.Fatalf("carry not set")
	}
}
