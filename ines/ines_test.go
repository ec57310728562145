package ines

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func buildHeader(prgBanks, chrBanks, flags6, flags7 byte) []byte {
	h := make([]byte, 16)
	copy(h, Magic)
	h[4] = prgBanks
	h[5] = chrBanks
	h[6] = flags6
	h[7] = flags7
	return h
}

func TestReadFromNROM(t *testing.T) {
	header := buildHeader(2, 1, 0x00, 0x00)
	prg := bytes.Repeat([]byte{0xAA}, 2*16384)
	chr := bytes.Repeat([]byte{0xBB}, 1*8192)

	buf := append(append(header, prg...), chr...)

	rom := new(Rom)
	n, err := rom.ReadFrom(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if n != int64(len(buf)) {
		t.Fatalf("n = %d, want %d", n, len(buf))
	}
	if rom.Mapper != 0 {
		t.Fatalf("Mapper = %d, want 0", rom.Mapper)
	}
	if rom.PRGBanks != 2 || rom.CHRBanks != 1 {
		t.Fatalf("PRGBanks/CHRBanks = %d/%d, want 2/1", rom.PRGBanks, rom.CHRBanks)
	}
	if !bytes.Equal(rom.PRG, prg) {
		t.Fatalf("PRG payload mismatch")
	}
	if !bytes.Equal(rom.CHR, chr) {
		t.Fatalf("CHR payload mismatch")
	}
}

func TestMapperNumberCombinesBothNibbles(t *testing.T) {
	// flags6 high nibble = 1 (mapper low nibble), flags7 high nibble = 0x10 -> mapper (0x10|0x01) = 17
	header := buildHeader(1, 1, 0x10, 0x10)
	buf := append(append(header, make([]byte, 16384)...), make([]byte, 8192)...)

	rom := new(Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}

	want := Rom{
		PRGBanks: 1,
		CHRBanks: 1,
		Mapper:   17,
		PRG:      make([]byte, 16384),
		CHR:      make([]byte, 8192),
	}
	if diff := cmp.Diff(want, *rom, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("decoded header mismatch (-want +got):\n%s", diff)
	}
}

func TestTrainerIsSkipped(t *testing.T) {
	header := buildHeader(1, 1, 0x04, 0x00) // trainer bit set
	trainer := bytes.Repeat([]byte{0xCC}, 512)
	prg := bytes.Repeat([]byte{0xAA}, 16384)
	chr := bytes.Repeat([]byte{0xBB}, 8192)

	buf := append(append(append(header, trainer...), prg...), chr...)

	rom := new(Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if !rom.HasTrainer {
		t.Fatalf("HasTrainer = false, want true")
	}
	if !bytes.Equal(rom.Trainer, trainer) {
		t.Fatalf("Trainer payload mismatch")
	}
	if !bytes.Equal(rom.PRG, prg) {
		t.Fatalf("PRG payload mismatch after trainer skip")
	}
}

func TestInvalidMagicRejected(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, "BAD\x1a")

	rom := new(Rom)
	_, err := rom.ReadFrom(bytes.NewReader(buf))
	if err == nil {
		t.Fatalf("expected error for invalid magic")
	}
}

func TestVerticalMirroringFlag(t *testing.T) {
	header := buildHeader(1, 1, 0x01, 0x00)
	buf := append(append(header, make([]byte, 16384)...), make([]byte, 8192)...)

	rom := new(Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if rom.Mirroring != MirrorVertical {
		t.Fatalf("Mirroring = %v, want MirrorVertical", rom.Mirroring)
	}
}
