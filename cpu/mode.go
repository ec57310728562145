package cpu

// AddrMode identifies one of the thirteen 6502 addressing modes.
type AddrMode uint8

const (
	Implied AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirectX // (zp,X)
	IndirectIndexedY // (zp),Y
)

// opInfo describes one opcode slot: its mnemonic (diagnostic only), the
// addressing mode operands are fetched with, instruction length in bytes,
// base cycle count, and the handler that performs the operation.
type opInfo struct {
	name   string
	mode   AddrMode
	bytes  uint8
	cycles uint8
	exec   func(c *CPU, ctx *operand)
}

// operand carries the addressing-mode resolution result into an opcode
// handler: the effective address (meaningless for Implied/Accumulator) and
// whether resolving it crossed a page boundary (used by read-mode
// AbsoluteX/AbsoluteY/IndirectIndexedY to add the documented penalty
// cycle).
type operand struct {
	mode        AddrMode
	addr        uint16
	pageCrossed bool
}

// resolve computes the effective address for mode, consuming the operand
// bytes that immediately follow the opcode at PC+1. It does not advance PC;
// the caller advances PC by the opcode's byte length after exec returns.
func (c *CPU) resolve(mode AddrMode) *operand {
	op := &operand{mode: mode}
	switch mode {
	case Implied, Accumulator:
		// no operand
	case Immediate:
		op.addr = c.PC + 1
	case ZeroPage:
		op.addr = uint16(c.Bus.Read8(c.PC + 1))
	case ZeroPageX:
		op.addr = uint16(uint8(c.Bus.Read8(c.PC+1)) + c.X)
	case ZeroPageY:
		op.addr = uint16(uint8(c.Bus.Read8(c.PC+1)) + c.Y)
	case Relative:
		// signed 8-bit displacement from the address of the *next* instruction
		disp := int8(c.Bus.Read8(c.PC + 1))
		base := c.PC + 2
		op.addr = uint16(int32(base) + int32(disp))
		op.pageCrossed = (base & 0xFF00) != (op.addr & 0xFF00)
	case Absolute:
		op.addr = c.Bus.Read16(c.PC + 1)
	case AbsoluteX:
		base := c.Bus.Read16(c.PC + 1)
		op.addr = base + uint16(c.X)
		op.pageCrossed = (base & 0xFF00) != (op.addr & 0xFF00)
	case AbsoluteY:
		base := c.Bus.Read16(c.PC + 1)
		op.addr = base + uint16(c.Y)
		op.pageCrossed = (base & 0xFF00) != (op.addr & 0xFF00)
	case Indirect:
		ptr := c.Bus.Read16(c.PC + 1)
		op.addr = c.readIndirect16(ptr)
	case IndexedIndirectX:
		zp := uint8(c.Bus.Read8(c.PC+1)) + c.X
		lo := c.Bus.Read8(uint16(zp))
		hi := c.Bus.Read8(uint16(uint8(zp + 1)))
		op.addr = uint16(hi)<<8 | uint16(lo)
	case IndirectIndexedY:
		zp := c.Bus.Read8(c.PC + 1)
		lo := c.Bus.Read8(uint16(zp))
		hi := c.Bus.Read8(uint16(uint8(zp + 1)))
		base := uint16(hi)<<8 | uint16(lo)
		op.addr = base + uint16(c.Y)
		op.pageCrossed = (base & 0xFF00) != (op.addr & 0xFF00)
	}
	return op
}

// readIndirect16 reproduces the indirect-JMP page-wrap bug: when ptr is
// $xxFF the high byte is fetched from $xx00, not $(xx+1)00.
func (c *CPU) readIndirect16(ptr uint16) uint16 {
	lo := c.Bus.Read8(ptr)
	hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
	hi := c.Bus.Read8(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

// load reads the operand's value: from the accumulator in Accumulator
// mode, otherwise from the bus at the resolved address.
func (c *CPU) load(op *operand) uint8 {
	if op.mode == Accumulator {
		return c.A
	}
	return c.Bus.Read8(op.addr)
}

// store writes val back to the operand's location.
func (c *CPU) store(op *operand, val uint8) {
	if op.mode == Accumulator {
		c.A = val
		return
	}
	c.Bus.Write8(op.addr, val)
}

// readPenalty returns the extra page-cross cycle a read-mode instruction
// incurs when the resolved address crossed a page boundary (writes to the
// same addressing modes do not get this penalty).
func readPenalty(op *operand) int {
	if op.pageCrossed {
		return 1
	}
	return 0
}
