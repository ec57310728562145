package ppu

// paletteMirror aliases the four sprite-palette-0 backdrop entries onto the
// corresponding background-palette entries, per §4.4.
func paletteMirror(addr uint16) uint16 {
	if addr&0x13 == 0x10 {
		return addr &^ 0x10
	}
	return addr
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.paletteRAM[paletteMirror(addr)&0x1F]
}

func (p *PPU) writePalette(addr uint16, val uint8) {
	p.paletteRAM[paletteMirror(addr)&0x1F] = val
}

// SystemPalette is the 64-entry sRGB palette. Indices 0x0D, 0x0E, 0x0F and
// their 0x1D/0x2D/0x3D-row counterparts render as pure black.
var SystemPalette = [64]RGB{
	{84, 84, 84}, {0, 30, 116}, {8, 16, 144}, {48, 0, 136},
	{68, 0, 100}, {92, 0, 48}, {84, 4, 0}, {60, 24, 0},
	{32, 42, 0}, {8, 58, 0}, {0, 64, 0}, {0, 60, 0},
	{0, 50, 60}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{152, 150, 152}, {8, 76, 196}, {48, 50, 236}, {92, 30, 228},
	{136, 20, 176}, {160, 20, 100}, {152, 34, 32}, {120, 60, 0},
	{84, 90, 0}, {40, 114, 0}, {8, 124, 0}, {0, 118, 40},
	{0, 102, 120}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {76, 154, 236}, {120, 124, 236}, {176, 98, 236},
	{228, 84, 236}, {236, 88, 180}, {236, 106, 100}, {212, 136, 32},
	{160, 170, 0}, {116, 196, 0}, {76, 208, 32}, {56, 204, 108},
	{56, 180, 204}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {168, 204, 236}, {188, 188, 236}, {212, 178, 236},
	{236, 174, 236}, {236, 174, 212}, {236, 180, 176}, {228, 196, 144},
	{204, 210, 120}, {180, 222, 120}, {168, 226, 144}, {152, 226, 180},
	{160, 214, 228}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
}
