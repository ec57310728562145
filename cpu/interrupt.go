package cpu

import "github.com/holovati/nessie/log"

func (c *CPU) push8(val uint8) {
	c.Bus.Write8(0x0100|uint16(c.S), val)
	c.S--
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val))
}

func (c *CPU) pull8() uint8 {
	c.S++
	return c.Bus.Read8(0x0100 | uint16(c.S))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

// serviceInterrupt implements the shared NMI/IRQ sequence: push PC, push P
// with B forced to 0 and U forced to 1, set I, load PC from vector.
// isBRK distinguishes the software BRK path, which pushes PC+2 (already
// done by the caller) and forces B=1 instead.
func (c *CPU) serviceInterrupt(vector uint16, isBRK bool) {
	c.push16(c.PC)

	p := c.P
	p.set(FlagBreak, isBRK)
	p.set(FlagUnused, true)
	c.push8(uint8(p))

	c.P.set(FlagInterrupt, true)
	c.PC = c.Bus.Read16(vector)
}

// jam traps the CPU in a halted state, per the Jammed error kind: further
// ticks become no-ops.
func (c *CPU) jam(opcode uint8) {
	c.jammed = true
	c.jamOp = opcode
	c.jamAt = c.PC
	log.ModCPU.ErrorZ("CPU jammed").Hex8("opcode", opcode).Hex16("PC", c.PC).End()
}
