package main

import (
	"fmt"

	"github.com/holovati/nessie/ines"
)

func (cmd *RomInfoCmd) Run() error {
	rom, err := ines.Open(cmd.RomPath)
	if err != nil {
		return fmt.Errorf("rom-info: %w", err)
	}

	fmt.Printf("mapper:       %d\n", rom.Mapper)
	fmt.Printf("PRG ROM:      %d x 16 KiB\n", rom.PRGBanks)
	fmt.Printf("CHR ROM:      %d x 8 KiB", rom.CHRBanks)
	if rom.CHRBanks == 0 {
		fmt.Printf(" (CHR-RAM)")
	}
	fmt.Println()
	fmt.Printf("mirroring:    %s\n", mirroringName(rom.Mirroring))
	fmt.Printf("battery RAM:  %t\n", rom.HasPersistentPRGRAM)
	fmt.Printf("trainer:      %t\n", rom.HasTrainer)
	return nil
}

func mirroringName(m ines.Mirroring) string {
	switch m {
	case ines.MirrorVertical:
		return "vertical"
	case ines.MirrorFourScreen:
		return "four-screen"
	default:
		return "horizontal"
	}
}
