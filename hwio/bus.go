// Package hwio implements the page-granularity address bus shared by the
// CPU and PPU, plus the small set of device primitives (RAM, bit-accessor
// registers) that sit behind it.
package hwio

import "github.com/holovati/nessie/log"

// pageSize is the bus routing granularity: addresses sharing the same high
// byte always resolve to the same device.
const pageSize = 0x100

// Device is the capability set every bus-attached component exposes.
// offset is the address already translated relative to the device's base.
type Device interface {
	Read8(offset uint16) uint8
	Write8(offset uint16, val uint8)
}

type pageEntry struct {
	dev  Device
	base uint32
}

// Bus routes 8-bit reads/writes to the device owning each 256-byte page. It
// owns no memory itself; devices are attached by the orchestrator/mapper at
// load time and may be re-attached at any time (a later attach on
// overlapping pages replaces the earlier device for those pages).
type Bus struct {
	Name  string
	pages [1 << 8]pageEntry // enough for a 16-bit address space; PPU addresses are masked to 14 bits by callers
}

// NewBus creates an empty bus. name is used only for diagnostics.
func NewBus(name string) *Bus {
	return &Bus{Name: name}
}

// Attach maps dev over [base, base+size), rounding base down and size up
// to page granularity, per page.
func (b *Bus) Attach(dev Device, base, size uint32) {
	startPage := base / pageSize
	endPage := (base + size - 1) / pageSize
	pageBase := startPage * pageSize
	for p := startPage; p <= endPage && p < uint32(len(b.pages)); p++ {
		b.pages[p] = pageEntry{dev: dev, base: pageBase}
	}
}

// Detach clears device ownership of [base, base+size), page-rounded.
func (b *Bus) Detach(base, size uint32) {
	startPage := base / pageSize
	endPage := (base + size - 1) / pageSize
	for p := startPage; p <= endPage && p < uint32(len(b.pages)); p++ {
		b.pages[p] = pageEntry{}
	}
}

func (b *Bus) lookup(addr uint16) (Device, uint32) {
	e := b.pages[uint32(addr)/pageSize]
	return e.dev, e.base
}

// Read8 returns 0xFF when no device is mapped at addr, per hardware open-bus
// convention on this platform.
func (b *Bus) Read8(addr uint16) uint8 {
	dev, base := b.lookup(addr)
	if dev == nil {
		log.ModHwIo.DebugZ("read at unmapped address").Str("bus", b.Name).Hex16("addr", addr).End()
		return 0xFF
	}
	return dev.Read8(addr - uint16(base))
}

// Write8 silently discards writes to unmapped pages.
func (b *Bus) Write8(addr uint16, val uint8) {
	dev, base := b.lookup(addr)
	if dev == nil {
		log.ModHwIo.DebugZ("write at unmapped address").Str("bus", b.Name).Hex16("addr", addr).Hex8("val", val).End()
		return
	}
	dev.Write8(addr-uint16(base), val)
}

// Read16 and Write16 are little-endian composites of two 8-bit accesses.
// The 6502's indirect-JMP page-wrap bug is NOT handled here — it is
// implemented in the CPU's JMP handler, which issues its own byte-level
// reads.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (b *Bus) Write16(addr uint16, val uint16) {
	b.Write8(addr, uint8(val))
	b.Write8(addr+1, uint8(val>>8))
}
