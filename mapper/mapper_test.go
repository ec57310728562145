package mapper

import (
	"testing"

	"github.com/holovati/nessie/hwio"
	"github.com/holovati/nessie/ines"
)

func newBuses() (*hwio.Bus, *hwio.Bus) {
	return hwio.NewBus("cpu"), hwio.NewBus("ppu")
}

func makeRom(mapperID uint8, prgBanks, chrBanks int) *ines.Rom {
	rom := &ines.Rom{Mapper: mapperID}
	rom.PRG = make([]byte, prgBanks*16384)
	for i := range rom.PRG {
		rom.PRG[i] = byte(i)
	}
	rom.CHR = make([]byte, chrBanks*8192)
	return rom
}

func TestLoadUnsupportedMapper(t *testing.T) {
	cpuBus, ppuBus := newBuses()
	rom := makeRom(255, 1, 1)
	if _, err := Load(rom, cpuBus, ppuBus); err == nil {
		t.Fatalf("expected ErrUnsupportedMapper")
	}
}

func TestNROM128MirrorsAcrossBothHalves(t *testing.T) {
	cpuBus, ppuBus := newBuses()
	rom := makeRom(0, 1, 1)

	if _, err := Load(rom, cpuBus, ppuBus); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cpuBus.Read8(0x8000), rom.PRG[0]; got != want {
		t.Fatalf("$8000 = %#02x, want %#02x", got, want)
	}
	if got, want := cpuBus.Read8(0xC000), rom.PRG[0]; got != want {
		t.Fatalf("$C000 (mirror of $8000) = %#02x, want %#02x", got, want)
	}
}

func TestNROM256DoesNotMirror(t *testing.T) {
	cpuBus, ppuBus := newBuses()
	rom := makeRom(0, 2, 1)

	if _, err := Load(rom, cpuBus, ppuBus); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cpuBus.Read8(0x8000), rom.PRG[0]; got != want {
		t.Fatalf("$8000 = %#02x, want %#02x", got, want)
	}
	if got, want := cpuBus.Read8(0xC000), rom.PRG[16384]; got != want {
		t.Fatalf("$C000 = %#02x, want %#02x (second bank, not a mirror)", got, want)
	}
}

// Invariant 10: five writes with no reset bit assemble the LSBs,
// LSB-first, into the register selected by the last write's address.
func TestMMC1ShiftRegisterLSBFirst(t *testing.T) {
	cpuBus, ppuBus := newBuses()
	rom := makeRom(1, 4, 2)
	m, err := Load(rom, cpuBus, ppuBus)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mm := m.(*mmc1)

	// Writes to the PRG register ($E000, bits 13-14 = 3), values chosen so
	// LSBs are 1,0,1,0,0 -> assembled LSB-first = 0b00101 = 5.
	for _, v := range []uint8{0x01, 0x00, 0x01, 0x00, 0x00} {
		cpuBus.Write8(0xE000, v)
	}

	if mm.prgBank != 5 {
		t.Fatalf("prgBank = %d, want 5", mm.prgBank)
	}
}

// S6: five writes of $01,$00,$00,$00,$00 to $E000 select PRG bank 1 (LSBs
// assembled LSB-first = 0b00001).
func TestScenarioS6MMC1BankSwitch(t *testing.T) {
	cpuBus, ppuBus := newBuses()
	rom := makeRom(1, 4, 2)
	if _, err := Load(rom, cpuBus, ppuBus); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, v := range []uint8{0x01, 0x00, 0x00, 0x00, 0x00} {
		cpuBus.Write8(0xE000, v)
	}

	// prg-mode after power-on is 3 (fix last bank at $C000, switch at
	// $8000), so $8000 now reads from PRG bank 1.
	if got, want := cpuBus.Read8(0x8000), rom.PRG[16384]; got != want {
		t.Fatalf("$8000 = %#02x, want %#02x (first byte of bank 1)", got, want)
	}
}

func TestMMC1ResetBitAbortsShiftSequence(t *testing.T) {
	cpuBus, ppuBus := newBuses()
	rom := makeRom(1, 4, 2)
	m, err := Load(rom, cpuBus, ppuBus)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mm := m.(*mmc1)

	cpuBus.Write8(0xE000, 0x01)
	cpuBus.Write8(0xE000, 0x80) // reset bit set: abort, force prg-mode 3
	if mm.counter != 0 {
		t.Fatalf("counter = %d, want 0 after reset-bit write", mm.counter)
	}
	if mm.prgMode != 0b11 {
		t.Fatalf("prgMode = %b, want 0b11 after reset-bit write", mm.prgMode)
	}
}

func TestMMC1InvalidCHRSizeRejected(t *testing.T) {
	cpuBus, ppuBus := newBuses()
	rom := makeRom(1, 4, 0)
	rom.CHR = make([]byte, 4097) // not a multiple of 4096
	if _, err := Load(rom, cpuBus, ppuBus); err == nil {
		t.Fatalf("expected ErrInvalidHeaderValue")
	}
}
