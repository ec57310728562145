package cpu

// opcodeTable is the 256-entry dispatch table. Slots left at their zero
// value (exec == nil) are the JAM/KIL opcodes; step() traps those via
// c.jam.
var opcodeTable [256]opInfo

func setOp(code uint8, name string, mode AddrMode, bytes, cycles uint8, exec func(c *CPU, op *operand)) {
	opcodeTable[code] = opInfo{name: name, mode: mode, bytes: bytes, cycles: cycles, exec: exec}
}

func init() {
	registerLoadStore()
	registerTransfer()
	registerStack()
	registerArithmetic()
	registerLogical()
	registerShifts()
	registerCompare()
	registerBranches()
	registerJumps()
	registerFlags()
	registerNop()
	registerUndocumented()
}

/* load/store */

func registerLoadStore() {
	lda := func(c *CPU, op *operand) { c.A = c.Bus.Read8(op.addr); c.P.setNZ(c.A); c.extraCycles += readPenalty(op) }
	ldx := func(c *CPU, op *operand) { c.X = c.Bus.Read8(op.addr); c.P.setNZ(c.X); c.extraCycles += readPenalty(op) }
	ldy := func(c *CPU, op *operand) { c.Y = c.Bus.Read8(op.addr); c.P.setNZ(c.Y); c.extraCycles += readPenalty(op) }
	sta := func(c *CPU, op *operand) { c.Bus.Write8(op.addr, c.A) }
	stx := func(c *CPU, op *operand) { c.Bus.Write8(op.addr, c.X) }
	sty := func(c *CPU, op *operand) { c.Bus.Write8(op.addr, c.Y) }

	setOp(0xA9, "LDA", Immediate, 2, 2, lda)
	setOp(0xA5, "LDA", ZeroPage, 2, 3, lda)
	setOp(0xB5, "LDA", ZeroPageX, 2, 4, lda)
	setOp(0xAD, "LDA", Absolute, 3, 4, lda)
	setOp(0xBD, "LDA", AbsoluteX, 3, 4, lda)
	setOp(0xB9, "LDA", AbsoluteY, 3, 4, lda)
	setOp(0xA1, "LDA", IndexedIndirectX, 2, 6, lda)
	setOp(0xB1, "LDA", IndirectIndexedY, 2, 5, lda)

	setOp(0xA2, "LDX", Immediate, 2, 2, ldx)
	setOp(0xA6, "LDX", ZeroPage, 2, 3, ldx)
	setOp(0xB6, "LDX", ZeroPageY, 2, 4, ldx)
	setOp(0xAE, "LDX", Absolute, 3, 4, ldx)
	setOp(0xBE, "LDX", AbsoluteY, 3, 4, ldx)

	setOp(0xA0, "LDY", Immediate, 2, 2, ldy)
	setOp(0xA4, "LDY", ZeroPage, 2, 3, ldy)
	setOp(0xB4, "LDY", ZeroPageX, 2, 4, ldy)
	setOp(0xAC, "LDY", Absolute, 3, 4, ldy)
	setOp(0xBC, "LDY", AbsoluteX, 3, 4, ldy)

	setOp(0x85, "STA", ZeroPage, 2, 3, sta)
	setOp(0x95, "STA", ZeroPageX, 2, 4, sta)
	setOp(0x8D, "STA", Absolute, 3, 4, sta)
	setOp(0x9D, "STA", AbsoluteX, 3, 5, sta)
	setOp(0x99, "STA", AbsoluteY, 3, 5, sta)
	setOp(0x81, "STA", IndexedIndirectX, 2, 6, sta)
	setOp(0x91, "STA", IndirectIndexedY, 2, 6, sta)

	setOp(0x86, "STX", ZeroPage, 2, 3, stx)
	setOp(0x96, "STX", ZeroPageY, 2, 4, stx)
	setOp(0x8E, "STX", Absolute, 3, 4, stx)

	setOp(0x84, "STY", ZeroPage, 2, 3, sty)
	setOp(0x94, "STY", ZeroPageX, 2, 4, sty)
	setOp(0x8C, "STY", Absolute, 3, 4, sty)
}

/* register transfers */

func registerTransfer() {
	setOp(0xAA, "TAX", Implied, 1, 2, func(c *CPU, op *operand) { c.X = c.A; c.P.setNZ(c.X) })
	setOp(0x8A, "TXA", Implied, 1, 2, func(c *CPU, op *operand) { c.A = c.X; c.P.setNZ(c.A) })
	setOp(0xA8, "TAY", Implied, 1, 2, func(c *CPU, op *operand) { c.Y = c.A; c.P.setNZ(c.Y) })
	setOp(0x98, "TYA", Implied, 1, 2, func(c *CPU, op *operand) { c.A = c.Y; c.P.setNZ(c.A) })
	setOp(0xBA, "TSX", Implied, 1, 2, func(c *CPU, op *operand) { c.X = c.S; c.P.setNZ(c.X) })
	setOp(0x9A, "TXS", Implied, 1, 2, func(c *CPU, op *operand) { c.S = c.X })
}

/* stack */

func registerStack() {
	setOp(0x48, "PHA", Implied, 1, 3, func(c *CPU, op *operand) { c.push8(c.A) })
	setOp(0x68, "PLA", Implied, 1, 4, func(c *CPU, op *operand) { c.A = c.pull8(); c.P.setNZ(c.A) })
	setOp(0x08, "PHP", Implied, 1, 3, func(c *CPU, op *operand) {
		p := c.P
		p.set(FlagBreak, true)
		p.set(FlagUnused, true)
		c.push8(uint8(p))
	})
	setOp(0x28, "PLP", Implied, 1, 4, func(c *CPU, op *operand) {
		p := P(c.pull8())
		p.set(FlagBreak, false)
		p.set(FlagUnused, true)
		c.P = p
	})
}

/* arithmetic */

func adc(c *CPU, m uint8) {
	carry := uint16(0)
	if c.P.has(FlagCarry) {
		carry = 1
	}
	r := uint16(c.A) + uint16(m) + carry
	result := uint8(r)
	c.P.set(FlagCarry, r > 0xFF)
	c.P.set(FlagOverflow, (^(c.A^m))&(c.A^result)&0x80 != 0)
	c.P.setNZ(result)
	c.A = result
}

func sbc(c *CPU, m uint8) {
	carry := uint16(0)
	if c.P.has(FlagCarry) {
		carry = 1
	}
	// SBC(A,M,C) == ADC(A,^M,C); this reproduces the documented borrow/
	// carry and overflow formulas against M (not ^M) exactly.
	notM := ^m
	r := uint16(c.A) + uint16(notM) + carry
	result := uint8(r)
	c.P.set(FlagCarry, r > 0xFF)
	c.P.set(FlagOverflow, (c.A^m)&(c.A^result)&0x80 != 0)
	c.P.setNZ(result)
	c.A = result
}

func registerArithmetic() {
	ADC := func(c *CPU, op *operand) { adc(c, c.Bus.Read8(op.addr)); c.extraCycles += readPenalty(op) }
	SBC := func(c *CPU, op *operand) { sbc(c, c.Bus.Read8(op.addr)); c.extraCycles += readPenalty(op) }

	setOp(0x69, "ADC", Immediate, 2, 2, ADC)
	setOp(0x65, "ADC", ZeroPage, 2, 3, ADC)
	setOp(0x75, "ADC", ZeroPageX, 2, 4, ADC)
	setOp(0x6D, "ADC", Absolute, 3, 4, ADC)
	setOp(0x7D, "ADC", AbsoluteX, 3, 4, ADC)
	setOp(0x79, "ADC", AbsoluteY, 3, 4, ADC)
	setOp(0x61, "ADC", IndexedIndirectX, 2, 6, ADC)
	setOp(0x71, "ADC", IndirectIndexedY, 2, 5, ADC)

	setOp(0xE9, "SBC", Immediate, 2, 2, SBC)
	setOp(0xE5, "SBC", ZeroPage, 2, 3, SBC)
	setOp(0xF5, "SBC", ZeroPageX, 2, 4, SBC)
	setOp(0xED, "SBC", Absolute, 3, 4, SBC)
	setOp(0xFD, "SBC", AbsoluteX, 3, 4, SBC)
	setOp(0xF9, "SBC", AbsoluteY, 3, 4, SBC)
	setOp(0xE1, "SBC", IndexedIndirectX, 2, 6, SBC)
	setOp(0xF1, "SBC", IndirectIndexedY, 2, 5, SBC)

	inc := func(c *CPU, op *operand) {
		v := c.load(op) + 1
		c.store(op, v)
		c.P.setNZ(v)
	}
	dec := func(c *CPU, op *operand) {
		v := c.load(op) - 1
		c.store(op, v)
		c.P.setNZ(v)
	}
	setOp(0xE6, "INC", ZeroPage, 2, 5, inc)
	setOp(0xF6, "INC", ZeroPageX, 2, 6, inc)
	setOp(0xEE, "INC", Absolute, 3, 6, inc)
	setOp(0xFE, "INC", AbsoluteX, 3, 7, inc)
	setOp(0xC6, "DEC", ZeroPage, 2, 5, dec)
	setOp(0xD6, "DEC", ZeroPageX, 2, 6, dec)
	setOp(0xCE, "DEC", Absolute, 3, 6, dec)
	setOp(0xDE, "DEC", AbsoluteX, 3, 7, dec)

	setOp(0xE8, "INX", Implied, 1, 2, func(c *CPU, op *operand) { c.X++; c.P.setNZ(c.X) })
	setOp(0xC8, "INY", Implied, 1, 2, func(c *CPU, op *operand) { c.Y++; c.P.setNZ(c.Y) })
	setOp(0xCA, "DEX", Implied, 1, 2, func(c *CPU, op *operand) { c.X--; c.P.setNZ(c.X) })
	setOp(0x88, "DEY", Implied, 1, 2, func(c *CPU, op *operand) { c.Y--; c.P.setNZ(c.Y) })
}

/* logical */

func registerLogical() {
	and := func(c *CPU, op *operand) { c.A &= c.Bus.Read8(op.addr); c.P.setNZ(c.A); c.extraCycles += readPenalty(op) }
	ora := func(c *CPU, op *operand) { c.A |= c.Bus.Read8(op.addr); c.P.setNZ(c.A); c.extraCycles += readPenalty(op) }
	eor := func(c *CPU, op *operand) { c.A ^= c.Bus.Read8(op.addr); c.P.setNZ(c.A); c.extraCycles += readPenalty(op) }
	bit := func(c *CPU, op *operand) {
		m := c.Bus.Read8(op.addr)
		c.P.set(FlagZero, c.A&m == 0)
		c.P.set(FlagOverflow, m&0x40 != 0)
		c.P.set(FlagNegative, m&0x80 != 0)
	}

	setOp(0x29, "AND", Immediate, 2, 2, and)
	setOp(0x25, "AND", ZeroPage, 2, 3, and)
	setOp(0x35, "AND", ZeroPageX, 2, 4, and)
	setOp(0x2D, "AND", Absolute, 3, 4, and)
	setOp(0x3D, "AND", AbsoluteX, 3, 4, and)
	setOp(0x39, "AND", AbsoluteY, 3, 4, and)
	setOp(0x21, "AND", IndexedIndirectX, 2, 6, and)
	setOp(0x31, "AND", IndirectIndexedY, 2, 5, and)

	setOp(0x09, "ORA", Immediate, 2, 2, ora)
	setOp(0x05, "ORA", ZeroPage, 2, 3, ora)
	setOp(0x15, "ORA", ZeroPageX, 2, 4, ora)
	setOp(0x0D, "ORA", Absolute, 3, 4, ora)
	setOp(0x1D, "ORA", AbsoluteX, 3, 4, ora)
	setOp(0x19, "ORA", AbsoluteY, 3, 4, ora)
	setOp(0x01, "ORA", IndexedIndirectX, 2, 6, ora)
	setOp(0x11, "ORA", IndirectIndexedY, 2, 5, ora)

	setOp(0x49, "EOR", Immediate, 2, 2, eor)
	setOp(0x45, "EOR", ZeroPage, 2, 3, eor)
	setOp(0x55, "EOR", ZeroPageX, 2, 4, eor)
	setOp(0x4D, "EOR", Absolute, 3, 4, eor)
	setOp(0x5D, "EOR", AbsoluteX, 3, 4, eor)
	setOp(0x59, "EOR", AbsoluteY, 3, 4, eor)
	setOp(0x41, "EOR", IndexedIndirectX, 2, 6, eor)
	setOp(0x51, "EOR", IndirectIndexedY, 2, 5, eor)

	setOp(0x24, "BIT", ZeroPage, 2, 3, bit)
	setOp(0x2C, "BIT", Absolute, 3, 4, bit)
}

/* shifts/rotates */

func asl(c *CPU, op *operand) {
	v := c.load(op)
	c.P.set(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.store(op, v)
	c.P.setNZ(v)
}

func lsr(c *CPU, op *operand) {
	v := c.load(op)
	c.P.set(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.store(op, v)
	c.P.setNZ(v)
}

func rol(c *CPU, op *operand) {
	v := c.load(op)
	carryIn := uint8(0)
	if c.P.has(FlagCarry) {
		carryIn = 1
	}
	c.P.set(FlagCarry, v&0x80 != 0)
	v = v<<1 | carryIn
	c.store(op, v)
	c.P.setNZ(v)
}

func ror(c *CPU, op *operand) {
	v := c.load(op)
	carryIn := uint8(0)
	if c.P.has(FlagCarry) {
		carryIn = 1
	}
	c.P.set(FlagCarry, v&0x01 != 0)
	v = v>>1 | carryIn<<7
	c.store(op, v)
	c.P.setNZ(v)
}

func registerShifts() {
	setOp(0x0A, "ASL", Accumulator, 1, 2, asl)
	setOp(0x06, "ASL", ZeroPage, 2, 5, asl)
	setOp(0x16, "ASL", ZeroPageX, 2, 6, asl)
	setOp(0x0E, "ASL", Absolute, 3, 6, asl)
	setOp(0x1E, "ASL", AbsoluteX, 3, 7, asl)

	setOp(0x4A, "LSR", Accumulator, 1, 2, lsr)
	setOp(0x46, "LSR", ZeroPage, 2, 5, lsr)
	setOp(0x56, "LSR", ZeroPageX, 2, 6, lsr)
	setOp(0x4E, "LSR", Absolute, 3, 6, lsr)
	setOp(0x5E, "LSR", AbsoluteX, 3, 7, lsr)

	setOp(0x2A, "ROL", Accumulator, 1, 2, rol)
	setOp(0x26, "ROL", ZeroPage, 2, 5, rol)
	setOp(0x36, "ROL", ZeroPageX, 2, 6, rol)
	setOp(0x2E, "ROL", Absolute, 3, 6, rol)
	setOp(0x3E, "ROL", AbsoluteX, 3, 7, rol)

	setOp(0x6A, "ROR", Accumulator, 1, 2, ror)
	setOp(0x66, "ROR", ZeroPage, 2, 5, ror)
	setOp(0x76, "ROR", ZeroPageX, 2, 6, ror)
	setOp(0x6E, "ROR", Absolute, 3, 6, ror)
	setOp(0x7E, "ROR", AbsoluteX, 3, 7, ror)
}

/* compare */

func compare(c *CPU, reg uint8, m uint8) {
	r := uint16(reg) - uint16(m)
	c.P.set(FlagCarry, reg >= m)
	c.P.setNZ(uint8(r))
}

func registerCompare() {
	cmp := func(c *CPU, op *operand) { compare(c, c.A, c.Bus.Read8(op.addr)); c.extraCycles += readPenalty(op) }
	cpx := func(c *CPU, op *operand) { compare(c, c.X, c.Bus.Read8(op.addr)) }
	cpy := func(c *CPU, op *operand) { compare(c, c.Y, c.Bus.Read8(op.addr)) }

	setOp(0xC9, "CMP", Immediate, 2, 2, cmp)
	setOp(0xC5, "CMP", ZeroPage, 2, 3, cmp)
	setOp(0xD5, "CMP", ZeroPageX, 2, 4, cmp)
	setOp(0xCD, "CMP", Absolute, 3, 4, cmp)
	setOp(0xDD, "CMP", AbsoluteX, 3, 4, cmp)
	setOp(0xD9, "CMP", AbsoluteY, 3, 4, cmp)
	setOp(0xC1, "CMP", IndexedIndirectX, 2, 6, cmp)
	setOp(0xD1, "CMP", IndirectIndexedY, 2, 5, cmp)

	setOp(0xE0, "CPX", Immediate, 2, 2, cpx)
	setOp(0xE4, "CPX", ZeroPage, 2, 3, cpx)
	setOp(0xEC, "CPX", Absolute, 3, 4, cpx)

	setOp(0xC0, "CPY", Immediate, 2, 2, cpy)
	setOp(0xC4, "CPY", ZeroPage, 2, 3, cpy)
	setOp(0xCC, "CPY", Absolute, 3, 4, cpy)
}

/* branches */

func registerBranches() {
	setOp(0x90, "BCC", Relative, 2, 2, branch2(func(c *CPU) bool { return !c.P.has(FlagCarry) }))
	setOp(0xB0, "BCS", Relative, 2, 2, branch2(func(c *CPU) bool { return c.P.has(FlagCarry) }))
	setOp(0xF0, "BEQ", Relative, 2, 2, branch2(func(c *CPU) bool { return c.P.has(FlagZero) }))
	setOp(0xD0, "BNE", Relative, 2, 2, branch2(func(c *CPU) bool { return !c.P.has(FlagZero) }))
	setOp(0x10, "BPL", Relative, 2, 2, branch2(func(c *CPU) bool { return !c.P.has(FlagNegative) }))
	setOp(0x30, "BMI", Relative, 2, 2, branch2(func(c *CPU) bool { return c.P.has(FlagNegative) }))
	setOp(0x50, "BVC", Relative, 2, 2, branch2(func(c *CPU) bool { return !c.P.has(FlagOverflow) }))
	setOp(0x70, "BVS", Relative, 2, 2, branch2(func(c *CPU) bool { return c.P.has(FlagOverflow) }))
}

// branch2 defers the condition test to dispatch time (register state at
// the moment the branch executes); it is the single branch implementation
// used by the table.
func branch2(cond func(c *CPU) bool) func(c *CPU, op *operand) {
	return func(c *CPU, op *operand) {
		if !cond(c) {
			return
		}
		c.extraCycles++
		if op.pageCrossed {
			c.extraCycles++
		}
		c.PC = op.addr - 2
	}
}

/* jumps and subroutines */

func registerJumps() {
	setOp(0x4C, "JMP", Absolute, 3, 3, func(c *CPU, op *operand) { c.PC = op.addr - 3 })
	setOp(0x6C, "JMP", Indirect, 3, 5, func(c *CPU, op *operand) { c.PC = op.addr - 3 })

	setOp(0x20, "JSR", Absolute, 3, 6, func(c *CPU, op *operand) {
		c.push16(c.PC + 2)
		c.PC = op.addr - 3
	})
	setOp(0x60, "RTS", Implied, 1, 6, func(c *CPU, op *operand) {
		// step() adds the 1-byte instruction length back after exec returns,
		// so setting PC to the pulled return address here yields pulled+1.
		c.PC = c.pull16()
	})
	setOp(0x40, "RTI", Implied, 1, 6, func(c *CPU, op *operand) {
		p := P(c.pull8())
		p.set(FlagBreak, false)
		p.set(FlagUnused, true)
		c.P = p
		c.PC = c.pull16() - 1
	})
	setOp(0x00, "BRK", Implied, 1, 7, func(c *CPU, op *operand) {
		c.push16(c.PC + 2)
		p := c.P
		p.set(FlagBreak, true)
		p.set(FlagUnused, true)
		c.push8(uint8(p))
		c.P.set(FlagInterrupt, true)
		if c.nmiPending {
			c.nmiPending = false
			c.PC = c.Bus.Read16(NMIVector) - 1
		} else {
			c.PC = c.Bus.Read16(IRQVector) - 1
		}
	})
}

/* flag instructions */

func registerFlags() {
	setOp(0x18, "CLC", Implied, 1, 2, func(c *CPU, op *operand) { c.P.set(FlagCarry, false) })
	setOp(0x38, "SEC", Implied, 1, 2, func(c *CPU, op *operand) { c.P.set(FlagCarry, true) })
	setOp(0x58, "CLI", Implied, 1, 2, func(c *CPU, op *operand) { c.P.set(FlagInterrupt, false) })
	setOp(0x78, "SEI", Implied, 1, 2, func(c *CPU, op *operand) { c.P.set(FlagInterrupt, true) })
	setOp(0xB8, "CLV", Implied, 1, 2, func(c *CPU, op *operand) { c.P.set(FlagOverflow, false) })
	setOp(0xD8, "CLD", Implied, 1, 2, func(c *CPU, op *operand) { c.P.set(FlagDecimal, false) })
	setOp(0xF8, "SED", Implied, 1, 2, func(c *CPU, op *operand) { c.P.set(FlagDecimal, true) })
}

/* NOP and the documented-but-pointless variants */

func registerNop() {
	setOp(0xEA, "NOP", Implied, 1, 2, func(c *CPU, op *operand) {})
}
