package mapper

import (
	"github.com/holovati/nessie/hwio"
	"github.com/holovati/nessie/ines"
)

var nromDescriptor = Descriptor{
	Name:    "NROM",
	Install: installNROM,
}

// nrom is mapper 0: one fixed PRG bank (16 or 32 KiB, the 16 KiB case
// mirrored across the full $8000-$FFFF window by ROM's own power-of-two
// masking) and one fixed CHR bank, no bank-switching registers at all.
type nrom struct {
	prgRAM *hwio.RAM
}

func (n *nrom) Name() string { return "NROM" }

func (n *nrom) ReadPRGRAM(offset uint16) uint8       { return n.prgRAM.Read8(offset) }
func (n *nrom) WritePRGRAM(offset uint16, val uint8) { n.prgRAM.Write8(offset, val) }

func installNROM(rom *ines.Rom, cpuBus, ppuBus *hwio.Bus) (Mapper, error) {
	n := &nrom{prgRAM: hwio.NewRAM("prg-ram", 0x2000)}
	cpuBus.Attach(n.prgRAM, 0x6000, 0x2000)

	prgROM := hwio.NewROM("prg-rom", rom.PRG)
	// NROM-128 (one 16 KiB bank) relies on ROM's internal power-of-two
	// mask to mirror $C000-$FFFF from $8000-$BFFF; NROM-256 (two banks)
	// fills the full 32 KiB window directly.
	cpuBus.Attach(prgROM, 0x8000, 0x8000)

	if len(rom.CHR) == 0 {
		chrRAM := hwio.NewRAM("chr-ram", 0x2000)
		ppuBus.Attach(chrRAM, 0x0000, 0x2000)
	} else {
		chrROM := hwio.NewROM("chr-rom", rom.CHR)
		ppuBus.Attach(chrROM, 0x0000, 0x2000)
	}

	ntA := hwio.NewRAM("nt-a", 0x0400)
	ntB := hwio.NewRAM("nt-b", 0x0400)
	attachNametables(ppuBus, rom.Mirroring, ntA, ntB)

	return n, nil
}
