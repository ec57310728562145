package ppu

import "github.com/holovati/nessie/log"

// Read8 and Write8 make the PPU itself the device attached to the CPU bus
// over $2000-$3FFF: the bus maps the whole page-rounded window to this one
// device, and the PPU mirrors it down to the 8 real registers itself.
func (p *PPU) Read8(offset uint16) uint8 {
	switch offset & 0x07 {
	case 2:
		return p.readStatus()
	case 4:
		return p.readOAMData()
	case 7:
		return p.readData()
	default:
		// PPUCTRL/PPUMASK/OAMADDR/PPUSCROLL/PPUADDR are write-only; a CPU
		// read returns the last value left on the shared internal bus,
		// which this core does not model bit-exactly (see PPUSTATUS).
		return 0
	}
}

func (p *PPU) Write8(offset uint16, val uint8) {
	switch offset & 0x07 {
	case 0:
		p.writeCtrl(val)
	case 1:
		p.mask.Set(val)
	case 3:
		p.oamAddr = val
	case 4:
		p.writeOAMData(val)
	case 5:
		p.writeScroll(val)
	case 6:
		p.writeAddr(val)
	case 7:
		p.writeData(val)
	}
}

// writeCtrl stores the raw byte and folds the nametable-select bits into t.
func (p *PPU) writeCtrl(val uint8) {
	p.ctrl.Set(val)
	p.t = p.t&^0x0C00 | uint16(val&0x03)<<10
}

// readStatus returns vblank/sprite0hit/overflow in their documented
// positions (bits 0-4 are open bus, modeled as zero per design decision),
// then clears vblank and the write toggle.
func (p *PPU) readStatus() uint8 {
	val := p.status.Get() & (1<<bitVBlank | 1<<bitSprite0Hit | 1<<bitSpriteOverflow)
	p.status.SetBit(bitVBlank, false)
	p.w = false
	log.ModPPU.DebugZ("PPUSTATUS read").Hex8("val", val).End()
	return val
}

func (p *PPU) readOAMData() uint8 {
	return p.OAM[p.oamAddr]
}

func (p *PPU) writeOAMData(val uint8) {
	p.OAM[p.oamAddr] = val
	p.oamAddr++
}

// writeScroll implements the two-step PPUSCROLL sequence described in
// §4.4.1: first write sets fine_x and t's coarse-X; second sets t's
// coarse-Y and fine-Y.
func (p *PPU) writeScroll(val uint8) {
	if !p.w {
		p.fineX = val & 0x07
		p.t = p.t&^0x001F | uint16(val>>3)
	} else {
		p.t = p.t&^0x73E0 | uint16(val&0x07)<<12 | uint16(val&0xF8)<<2
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(val uint8) {
	if !p.w {
		p.t = p.t&^0x7F00 | uint16(val&0x3F)<<8
	} else {
		p.t = p.t&^0x00FF | uint16(val)
		p.v = p.t
	}
	p.w = !p.w
}

// readData implements the $2007 delayed-read-buffer behavior: reads
// outside palette space return the buffer filled by the *previous* read
// and refill it from the new address; palette reads are immediate.
func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	var val uint8
	if addr >= 0x3F00 {
		val = p.readPalette(addr & 0x1F)
		p.dataBuf = p.Bus.Read8(addr & 0x2FFF)
	} else {
		val = p.dataBuf
		p.dataBuf = p.Bus.Read8(addr)
	}
	p.incrementAddr()
	return val
}

func (p *PPU) writeData(val uint8) {
	addr := p.v & 0x3FFF
	if addr >= 0x3F00 {
		p.writePalette(addr&0x1F, val)
	} else {
		p.Bus.Write8(addr, val)
	}
	p.incrementAddr()
}

func (p *PPU) incrementAddr() {
	if p.ctrl.GetBit(bitVRAMIncrement) {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}

// WriteOAM256 copies up to 256 bytes into OAM in one call, starting at the
// current OAMADDR and wrapping within OAM (real hardware always starts from
// whatever OAMADDR already holds); OAMADDR itself is left unchanged. The
// input shim's OAM-DMA does not use it: that transfer writes each byte
// through $2004.
func (p *PPU) WriteOAM256(data []uint8) {
	for i := 0; i < 256 && i < len(data); i++ {
		p.OAM[uint8(int(p.oamAddr)+i)] = data[i]
	}
}
