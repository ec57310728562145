// Package mapper dispatches a decoded cartridge image to the concrete
// bank-switching logic its mapper ID names, installing the resulting
// devices onto the CPU and PPU buses.
package mapper

import (
	"fmt"

	"github.com/holovati/nessie/hwio"
	"github.com/holovati/nessie/ines"
	"github.com/holovati/nessie/log"
)

// ErrUnsupportedMapper is returned when a cartridge's mapper ID has no
// registered handler.
var ErrUnsupportedMapper = fmt.Errorf("mapper: unsupported mapper id")

// ErrInvalidHeaderValue is returned when a registered mapper rejects the
// header's PRG/CHR sizes or flag combination as out of range for that
// board (e.g. CHR larger than the MMC1 shift register can select).
var ErrInvalidHeaderValue = fmt.Errorf("mapper: invalid header value for this mapper")

// Mapper is what every installed cartridge board exposes back to the
// orchestrator, beyond the devices it has already attached to the buses:
// access to battery-backed PRG-RAM for save-file persistence.
type Mapper interface {
	Name() string
	ReadPRGRAM(offset uint16) uint8
	WritePRGRAM(offset uint16, val uint8)
}

// Descriptor bundles a mapper's diagnostic name with its probe+install
// closure.
type Descriptor struct {
	Name    string
	Install func(rom *ines.Rom, cpuBus, ppuBus *hwio.Bus) (Mapper, error)
}

var registry = map[uint8]Descriptor{
	0: nromDescriptor,
	1: mmc1Descriptor,
}

// Load looks up rom.Mapper in the registry and installs it, attaching PRG
// and CHR devices onto cpuBus and ppuBus.
func Load(rom *ines.Rom, cpuBus, ppuBus *hwio.Bus) (Mapper, error) {
	desc, ok := registry[rom.Mapper]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, rom.Mapper)
	}
	m, err := desc.Install(rom, cpuBus, ppuBus)
	if err != nil {
		return nil, fmt.Errorf("mapper: failed to install %s: %w", desc.Name, err)
	}
	log.ModMapper.InfoZ("cartridge mapper installed").Str("name", desc.Name).End()
	return m, nil
}

// attachNametables maps the two physical 1 KiB nametable RAMs onto the
// PPU's four logical nametable slots ($2000-$2FFF) and their $3000-$3FFF
// mirror (the PPU serves $3F00-$3F1F from its own palette RAM), according to the cartridge's fixed mirroring flag. No special
// PPU-side logic is needed: the bus simply points overlapping pages at the
// same two RAM devices.
func attachNametables(ppuBus *hwio.Bus, mirroring ines.Mirroring, a, b *hwio.RAM) {
	switch mirroring {
	case ines.MirrorVertical:
		attachNametablesRaw(ppuBus, a, b, a, b)
	case ines.MirrorFourScreen:
		// The cartridge's extra VRAM is not modeled: the four slots are
		// mapped onto the two internal RAMs exactly as for vertical
		// mirroring, so slots 3 and 4 alias slots 1 and 2.
		attachNametablesRaw(ppuBus, a, b, a, b)
	default: // MirrorHorizontal
		attachNametablesRaw(ppuBus, a, a, b, b)
	}
}

// attachNametablesRaw assigns the four logical nametable slots directly,
// used by mappers (MMC1's single-screen modes) whose mirroring state isn't
// expressible as an ines.Mirroring value.
func attachNametablesRaw(ppuBus *hwio.Bus, nt1, nt2, nt3, nt4 *hwio.RAM) {
	ppuBus.Attach(nt1, 0x2000, 0x0400)
	ppuBus.Attach(nt2, 0x2400, 0x0400)
	ppuBus.Attach(nt3, 0x2800, 0x0400)
	ppuBus.Attach(nt4, 0x2C00, 0x0400)
	ppuBus.Attach(nt1, 0x3000, 0x0400)
	ppuBus.Attach(nt2, 0x3400, 0x0400)
	ppuBus.Attach(nt3, 0x3800, 0x0400)
	ppuBus.Attach(nt4, 0x3C00, 0x0400)
}
