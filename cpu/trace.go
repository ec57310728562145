package cpu

import "fmt"

// TraceLine formats a disassembly trace line for the instruction about to
// execute at the current PC, followed by the register snapshot, in the
// nestest-log style. It only reads memory, never advances state, so it is
// safe to call immediately before Tick for a --trace diagnostic output.
func (c *CPU) TraceLine() string {
	opcode := c.Bus.Read8(c.PC)
	info := opcodeTable[opcode]

	n := int(info.bytes)
	if n == 0 {
		n = 1 // undefined/JAM opcode: at least the opcode byte itself
	}
	raw := make([]byte, n)
	for i := range raw {
		raw[i] = c.Bus.Read8(c.PC + uint16(i))
	}

	name := info.name
	if name == "" {
		name = "JAM"
	}

	return fmt.Sprintf("%04X  %-9s %-4s %-9s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		c.PC, hexBytes(raw), name, operandString(info.mode, raw), c.A, c.X, c.Y, uint8(c.P), c.S, c.ticks)
}

func hexBytes(raw []byte) string {
	s := ""
	for i, b := range raw {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%02X", b)
	}
	return s
}

// operandString renders raw[1:] (the operand bytes) according to the
// addressing mode, skipping symbolic resolution (no bus access): a
// diagnostic aid, not a disassembler that names zero-page/absolute
// targets by label.
func operandString(mode AddrMode, raw []byte) string {
	switch mode {
	case Implied, Accumulator:
		return ""
	case Immediate:
		return fmt.Sprintf("#$%02X", raw[1])
	case ZeroPage:
		return fmt.Sprintf("$%02X", raw[1])
	case ZeroPageX:
		return fmt.Sprintf("$%02X,X", raw[1])
	case ZeroPageY:
		return fmt.Sprintf("$%02X,Y", raw[1])
	case Relative:
		return fmt.Sprintf("*%+d", int8(raw[1]))
	case Absolute:
		return fmt.Sprintf("$%02X%02X", raw[2], raw[1])
	case AbsoluteX:
		return fmt.Sprintf("$%02X%02X,X", raw[2], raw[1])
	case AbsoluteY:
		return fmt.Sprintf("$%02X%02X,Y", raw[2], raw[1])
	case Indirect:
		return fmt.Sprintf("($%02X%02X)", raw[2], raw[1])
	case IndexedIndirectX:
		return fmt.Sprintf("($%02X,X)", raw[1])
	case IndirectIndexedY:
		return fmt.Sprintf("($%02X),Y", raw[1])
	default:
		return ""
	}
}
