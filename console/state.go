package console

import (
	"fmt"

	"github.com/go-faster/jx"

	"github.com/holovati/nessie/cpu"
	"github.com/holovati/nessie/ppu"
)

// stateVersion guards against decoding a snapshot written by an
// incompatible layout.
const stateVersion = 1

// prgRAMSize is the battery-backed PRG-RAM window size both registered
// mappers (NROM, MMC1) expose at $6000-$7FFF.
const prgRAMSize = 0x2000

// SaveState encodes the CPU register file, PPU register/pipeline state and
// battery-backed PRG-RAM into the JSON snapshot format this core offers
// the host for the persisted-state concern named in the external
// interface: the core itself mandates no save path, but exposing
// PRG-RAM read/write as structured JSON saves every host from hand-rolling
// the byte layout.
func (c *Console) SaveState() ([]byte, error) {
	var e jx.Encoder
	e.ObjStart()

	e.FieldStart("version")
	e.Int(stateVersion)

	e.FieldStart("cpu")
	encodeCPUState(&e, c.CPU.State())

	e.FieldStart("ppu")
	encodePPUState(&e, c.PPU.State())

	e.FieldStart("wram")
	encodeBytes(&e, c.wram.Bytes())

	e.FieldStart("prg_ram")
	prgRAM := make([]byte, prgRAMSize)
	for i := range prgRAM {
		prgRAM[i] = c.Mapper.ReadPRGRAM(uint16(i))
	}
	encodeBytes(&e, prgRAM)

	e.ObjEnd()
	return e.Bytes(), nil
}

// LoadState restores a snapshot written by SaveState. The console must
// already be powered up on the same ROM: LoadState does not reattach
// devices, only the mutable register/memory state they hold.
func (c *Console) LoadState(buf []byte) error {
	d := jx.DecodeBytes(buf)

	var (
		version int
		cpuSt   cpu.State
		ppuSt   ppu.State
		wram    []byte
		prgRAM  []byte
	)

	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			version, err = d.Int()
		case "cpu":
			cpuSt, err = decodeCPUState(d)
		case "ppu":
			ppuSt, err = decodePPUState(d)
		case "wram":
			wram, err = decodeBytes(d)
		case "prg_ram":
			prgRAM, err = decodeBytes(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("console: failed to decode save state: %w", err)
	}
	if version != stateVersion {
		return fmt.Errorf("console: save state version %d, want %d", version, stateVersion)
	}
	if len(wram) != internalRAMSize {
		return fmt.Errorf("console: save state wram size %d, want %d", len(wram), internalRAMSize)
	}
	if len(prgRAM) != prgRAMSize {
		return fmt.Errorf("console: save state prg_ram size %d, want %d", len(prgRAM), prgRAMSize)
	}

	c.CPU.SetState(cpuSt)
	c.PPU.SetState(ppuSt)
	copy(c.wram.Bytes(), wram)
	for i, b := range prgRAM {
		c.Mapper.WritePRGRAM(uint16(i), b)
	}
	return nil
}

func encodeBytes(e *jx.Encoder, b []byte) {
	e.ArrStart()
	for _, v := range b {
		e.UInt8(v)
	}
	e.ArrEnd()
}

func decodeBytes(d *jx.Decoder) ([]byte, error) {
	var out []byte
	err := d.Arr(func(d *jx.Decoder) error {
		v, err := d.UInt8()
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func encodeCPUState(e *jx.Encoder, s cpu.State) {
	e.ObjStart()
	e.FieldStart("a")
	e.UInt8(s.A)
	e.FieldStart("x")
	e.UInt8(s.X)
	e.FieldStart("y")
	e.UInt8(s.Y)
	e.FieldStart("s")
	e.UInt8(s.S)
	e.FieldStart("pc")
	e.UInt16(s.PC)
	e.FieldStart("p")
	e.UInt8(s.P)
	e.FieldStart("remaining_cycles")
	e.Int(s.RemainingCycles)
	e.FieldStart("nmi_pending")
	e.Bool(s.NMIPending)
	e.FieldStart("irq_line")
	e.Bool(s.IRQLine)
	e.FieldStart("ticks")
	e.UInt64(s.Ticks)
	e.ObjEnd()
}

func decodeCPUState(d *jx.Decoder) (cpu.State, error) {
	var s cpu.State
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "a":
			s.A, err = d.UInt8()
		case "x":
			s.X, err = d.UInt8()
		case "y":
			s.Y, err = d.UInt8()
		case "s":
			s.S, err = d.UInt8()
		case "pc":
			s.PC, err = d.UInt16()
		case "p":
			s.P, err = d.UInt8()
		case "remaining_cycles":
			s.RemainingCycles, err = d.Int()
		case "nmi_pending":
			s.NMIPending, err = d.Bool()
		case "irq_line":
			s.IRQLine, err = d.Bool()
		case "ticks":
			s.Ticks, err = d.UInt64()
		default:
			err = d.Skip()
		}
		return err
	})
	return s, err
}

func encodePPUState(e *jx.Encoder, s ppu.State) {
	e.ObjStart()
	e.FieldStart("ctrl")
	e.UInt8(s.Ctrl)
	e.FieldStart("mask")
	e.UInt8(s.Mask)
	e.FieldStart("status")
	e.UInt8(s.Status)
	e.FieldStart("oam_addr")
	e.UInt8(s.OAMAddr)
	e.FieldStart("oam")
	encodeBytes(e, s.OAM[:])
	e.FieldStart("palette_ram")
	encodeBytes(e, s.PaletteRAM[:])
	e.FieldStart("v")
	e.UInt16(s.V)
	e.FieldStart("t")
	e.UInt16(s.T)
	e.FieldStart("fine_x")
	e.UInt8(s.FineX)
	e.FieldStart("w")
	e.Bool(s.W)
	e.FieldStart("data_buf")
	e.UInt8(s.DataBuf)
	e.FieldStart("scanline")
	e.Int(s.Scanline)
	e.FieldStart("dot")
	e.Int(s.Dot)
	e.FieldStart("frame_odd")
	e.Bool(s.FrameOdd)
	e.FieldStart("nt_byte")
	e.UInt8(s.NTByte)
	e.FieldStart("at_byte")
	e.UInt8(s.ATByte)
	e.FieldStart("pt_low")
	e.UInt8(s.PTLowB)
	e.FieldStart("pt_high")
	e.UInt8(s.PTHighB)
	e.FieldStart("bg_shift_low")
	e.UInt16(s.BGShiftLow)
	e.FieldStart("bg_shift_high")
	e.UInt16(s.BGShiftHigh)
	e.FieldStart("at_shift_low")
	e.UInt16(s.ATShiftLow)
	e.FieldStart("at_shift_high")
	e.UInt16(s.ATShiftHigh)
	e.ObjEnd()
}

func decodePPUState(d *jx.Decoder) (ppu.State, error) {
	var s ppu.State
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "ctrl":
			s.Ctrl, err = d.UInt8()
		case "mask":
			s.Mask, err = d.UInt8()
		case "status":
			s.Status, err = d.UInt8()
		case "oam_addr":
			s.OAMAddr, err = d.UInt8()
		case "oam":
			var b []byte
			b, err = decodeBytes(d)
			if err == nil {
				copy(s.OAM[:], b)
			}
		case "palette_ram":
			var b []byte
			b, err = decodeBytes(d)
			if err == nil {
				copy(s.PaletteRAM[:], b)
			}
		case "v":
			s.V, err = d.UInt16()
		case "t":
			s.T, err = d.UInt16()
		case "fine_x":
			s.FineX, err = d.UInt8()
		case "w":
			s.W, err = d.Bool()
		case "data_buf":
			s.DataBuf, err = d.UInt8()
		case "scanline":
			s.Scanline, err = d.Int()
		case "dot":
			s.Dot, err = d.Int()
		case "frame_odd":
			s.FrameOdd, err = d.Bool()
		case "nt_byte":
			s.NTByte, err = d.UInt8()
		case "at_byte":
			s.ATByte, err = d.UInt8()
		case "pt_low":
			s.PTLowB, err = d.UInt8()
		case "pt_high":
			s.PTHighB, err = d.UInt8()
		case "bg_shift_low":
			s.BGShiftLow, err = d.UInt16()
		case "bg_shift_high":
			s.BGShiftHigh, err = d.UInt16()
		case "at_shift_low":
			s.ATShiftLow, err = d.UInt16()
		case "at_shift_high":
			s.ATShiftHigh, err = d.UInt16()
		default:
			err = d.Skip()
		}
		return err
	})
	return s, err
}
