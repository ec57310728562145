// Package ppu implements the picture processing unit: the 262×341
// scanline/dot state machine, the v/t/fine_x/w VRAM address registers, the
// background tile-fetch shift pipeline, OAM, and palette memory. PPU
// memory access (pattern and nametable fetches) routes through the PPU's
// own internal bus, kept separate from the CPU bus.
package ppu

import "github.com/holovati/nessie/hwio"

const (
	Width       = 256
	Height      = 240
	NumDots     = 341
	NumScanline = 262
)

// RGB is one system-palette color, red/green/blue in that order.
type RGB struct{ R, G, B uint8 }

// PPU is attached to the CPU bus as the $2000-$3FFF register-window
// device (mirrored every 8 bytes, handled internally via offset&7) and
// owns its own address-space bus for pattern tables and nametables.
type PPU struct {
	Bus *hwio.Bus // PPU address space: patterns $0000-$1FFF, nametables $2000-$3EFF

	// NMI is called when vblank begins and PPUCTRL's NMI-enable bit is
	// set; wired by the orchestrator to CPU.NMI.
	NMI func()

	// FrameCallback is invoked once per frame, at the first dot of the
	// post-render scanline, with the just-completed frame buffer. The
	// PPU does not reallocate the buffer between frames — the
	// callback sees the same backing array refreshed in place, so a
	// caller that needs to keep it must copy.
	FrameCallback func(buf *[Width * Height]RGB)

	ctrl   hwio.Reg8
	mask   hwio.Reg8
	status hwio.Reg8

	oamAddr uint8
	OAM     [256]byte

	paletteRAM [32]byte

	v, t  uint16 // 15-bit VRAM address registers
	fineX uint8  // 3-bit
	w     bool   // write toggle

	dataBuf uint8 // delayed $2007 read buffer

	Scanline int
	Dot      int
	frameOdd bool

	// tile-fetch latches
	ntByte   uint8
	atByte   uint8
	ptLowB   uint8
	ptHighB  uint8

	// shift registers: the high byte holds the tile being output (pixels
	// leave from the top, selected by fine_x), the low byte is reloaded
	// with the next tile every 8 dots, matching the hardware's
	// left-shift-out-the-top behavior.
	bgShiftLow  uint16
	bgShiftHigh uint16
	atShiftLow  uint16
	atShiftHigh uint16

	frameBuf [Width * Height]RGB
}

// New returns a PPU with no bus attached; the owning console wires Bus and
// NMI/FrameCallback before the first Tick.
func New() *PPU {
	return &PPU{}
}

// PowerOn resets the PPU to its post-power-up state.
func (p *PPU) PowerOn(bus *hwio.Bus) {
	p.Bus = bus
	p.Scanline = 0
	p.Dot = 0
	p.frameOdd = false
	p.v, p.t = 0, 0
	p.fineX = 0
	p.w = false
	p.ctrl.Set(0)
	p.mask.Set(0)
	p.status.Set(0)
	p.oamAddr = 0
	p.dataBuf = 0
}

// State is the serializable subset of PPU register and pipeline state a
// save-state snapshot needs to resume rendering exactly. The tile-fetch
// latches and shift registers are included because restoring mid-scanline
// without them would corrupt the next several pixels.
type State struct {
	Ctrl, Mask, Status uint8
	OAMAddr            uint8
	OAM                [256]byte
	PaletteRAM         [32]byte

	V, T  uint16
	FineX uint8
	W     bool

	DataBuf uint8

	Scanline, Dot int
	FrameOdd      bool

	NTByte, ATByte, PTLowB, PTHighB uint8
	BGShiftLow, BGShiftHigh         uint16
	ATShiftLow, ATShiftHigh         uint16
}

// State captures the PPU's resumable state.
func (p *PPU) State() State {
	return State{
		Ctrl: p.ctrl.Get(), Mask: p.mask.Get(), Status: p.status.Get(),
		OAMAddr:    p.oamAddr,
		OAM:        p.OAM,
		PaletteRAM: p.paletteRAM,

		V: p.v, T: p.t, FineX: p.fineX, W: p.w,

		DataBuf: p.dataBuf,

		Scanline: p.Scanline, Dot: p.Dot, FrameOdd: p.frameOdd,

		NTByte: p.ntByte, ATByte: p.atByte, PTLowB: p.ptLowB, PTHighB: p.ptHighB,
		BGShiftLow: p.bgShiftLow, BGShiftHigh: p.bgShiftHigh,
		ATShiftLow: p.atShiftLow, ATShiftHigh: p.atShiftHigh,
	}
}

// SetState restores a previously captured State. Bus/NMI/FrameCallback
// must already be wired via PowerOn.
func (p *PPU) SetState(s State) {
	p.ctrl.Set(s.Ctrl)
	p.mask.Set(s.Mask)
	p.status.Set(s.Status)
	p.oamAddr = s.OAMAddr
	p.OAM = s.OAM
	p.paletteRAM = s.PaletteRAM

	p.v, p.t, p.fineX, p.w = s.V, s.T, s.FineX, s.W
	p.dataBuf = s.DataBuf

	p.Scanline, p.Dot, p.frameOdd = s.Scanline, s.Dot, s.FrameOdd

	p.ntByte, p.atByte, p.ptLowB, p.ptHighB = s.NTByte, s.ATByte, s.PTLowB, s.PTHighB
	p.bgShiftLow, p.bgShiftHigh = s.BGShiftLow, s.BGShiftHigh
	p.atShiftLow, p.atShiftHigh = s.ATShiftLow, s.ATShiftHigh
}

// PPUCTRL bit positions.
const (
	bitNametable     = 0 // 2 bits: 0-1
	bitVRAMIncrement = 2
	bitSpriteTable   = 3
	bitBGTable       = 4
	bitSpriteSize    = 5
	bitMasterSlave   = 6
	bitNMIEnable     = 7
)

// PPUMASK bit positions.
const (
	bitGreyscale      = 0
	bitShowBGLeft     = 1
	bitShowSpriteLeft = 2
	bitShowBG         = 3
	bitShowSprites    = 4
)

// PPUSTATUS bit positions.
const (
	bitSpriteOverflow = 5
	bitSprite0Hit     = 6
	bitVBlank         = 7
)

func (p *PPU) renderingEnabled() bool {
	return p.mask.GetBit(bitShowBG) || p.mask.GetBit(bitShowSprites)
}

// Tick advances the PPU by exactly one dot.
func (p *PPU) Tick() {
	// Scanline 0 dot 0 is skipped on odd frames when rendering is enabled:
	// the pre-render scanline's final dot (340) is where this is actually
	// realized on real hardware, but modeling it as a skip on the very
	// next dot-0 is equivalent and simpler to express here.
	if p.Scanline == 0 && p.Dot == 0 && p.frameOdd && p.renderingEnabled() {
		p.Dot = 1
	}

	switch {
	case p.Scanline <= 239:
		p.renderDot()
	case p.Scanline == 240:
		if p.Dot == 0 {
			p.deliverFrame()
		}
	case p.Scanline >= 241 && p.Scanline <= 260:
		if p.Scanline == 241 && p.Dot == 1 {
			p.status.SetBit(bitVBlank, true)
			if p.ctrl.GetBit(bitNMIEnable) && p.NMI != nil {
				p.NMI()
			}
		}
	case p.Scanline == 261:
		p.renderPreRenderDot()
	}

	p.advance()
}

func (p *PPU) advance() {
	p.Dot++
	if p.Dot >= NumDots {
		p.Dot = 0
		p.Scanline++
		if p.Scanline >= NumScanline {
			p.Scanline = 0
			p.frameOdd = !p.frameOdd
		}
	}
}

func (p *PPU) deliverFrame() {
	if p.FrameCallback != nil {
		p.FrameCallback(&p.frameBuf)
	}
}

/* background pipeline, shared by visible and pre-render scanlines */

func (p *PPU) renderDot() {
	if p.Dot == 0 {
		return
	}
	if p.renderingEnabled() {
		p.runPipeline()
	}
	if p.Dot >= 1 && p.Dot <= 256 {
		p.emitPixel()
	}
	if p.Dot >= 257 && p.Dot <= 320 {
		p.oamAddr = 0
	}
}

func (p *PPU) renderPreRenderDot() {
	if p.Dot == 1 {
		p.status.SetBit(bitVBlank, false)
		p.status.SetBit(bitSprite0Hit, false)
		p.status.SetBit(bitSpriteOverflow, false)
	}
	if p.Dot == 0 {
		return
	}
	if p.renderingEnabled() {
		p.runPipeline()
		if p.Dot >= 280 && p.Dot <= 304 {
			p.copyVerticalBits()
		}
	}
	if p.Dot >= 257 && p.Dot <= 320 {
		p.oamAddr = 0
	}
}

// runPipeline performs the per-dot shift-register advance and the
// every-8-dots tile fetch sequence, valid over dots 1-256 and 321-336.
func (p *PPU) runPipeline() {
	inFetchWindow := (p.Dot >= 1 && p.Dot <= 256) || (p.Dot >= 321 && p.Dot <= 336)
	if inFetchWindow {
		p.shiftRegisters()
		p.fetchCycle()
	}
	if p.Dot == 256 {
		p.incrementVertical()
	}
	if p.Dot == 257 {
		p.copyHorizontalBits()
	}
}

func (p *PPU) shiftRegisters() {
	p.bgShiftLow <<= 1
	p.bgShiftHigh <<= 1
	p.atShiftLow <<= 1
	p.atShiftHigh <<= 1
}

// fetchCycle runs the tile-fetch sequence on dots whose position mod 8
// matches a fetch phase, and reloads the shift registers from the latches
// every 8th dot.
func (p *PPU) fetchCycle() {
	switch p.Dot % 8 {
	case 1:
		ntAddr := 0x2000 | (p.v & 0x0FFF)
		p.ntByte = p.Bus.Read8(ntAddr)
	case 3:
		atAddr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		raw := p.Bus.Read8(atAddr)
		coarseX := p.v & 0x1F
		coarseY := (p.v >> 5) & 0x1F
		shift := uint((coarseY&2)<<1 | (coarseX & 2))
		p.atByte = (raw >> shift) & 0x03
	case 5:
		fineY := (p.v >> 12) & 0x07
		base := uint16(0)
		if p.ctrl.GetBit(bitBGTable) {
			base = 0x1000
		}
		addr := base | uint16(p.ntByte)<<4 | fineY
		p.ptLowB = p.Bus.Read8(addr)
	case 7:
		fineY := (p.v >> 12) & 0x07
		base := uint16(0)
		if p.ctrl.GetBit(bitBGTable) {
			base = 0x1000
		}
		addr := base | uint16(p.ntByte)<<4 | fineY
		p.ptHighB = p.Bus.Read8(addr + 8)
	case 0:
		p.incrementHorizontal()
		p.reloadShiftRegisters()
	}
}

func (p *PPU) reloadShiftRegisters() {
	p.bgShiftLow = p.bgShiftLow&0xFF00 | uint16(p.ptLowB)
	p.bgShiftHigh = p.bgShiftHigh&0xFF00 | uint16(p.ptHighB)

	// Attribute bits apply uniformly across the whole tile, so each
	// shift register's low byte is loaded with all-0 or all-1 rather
	// than a per-pixel pattern, keeping it aligned with the background
	// pattern pipeline's two-tile lookahead timing.
	var fillLow, fillHigh uint16
	if p.atByte&0x01 != 0 {
		fillLow = 0xFF
	}
	if p.atByte&0x02 != 0 {
		fillHigh = 0xFF
	}
	p.atShiftLow = p.atShiftLow&0xFF00 | fillLow
	p.atShiftHigh = p.atShiftHigh&0xFF00 | fillHigh
}

/* v/t register mutation rules, §4.4.1/§4.4.2 */

func (p *PPU) incrementHorizontal() {
	if p.v&0x001F == 0x1F {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementVertical() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	coarseY := (p.v & 0x03E0) >> 5
	switch coarseY {
	case 29:
		coarseY = 0
		p.v ^= 0x0800
	case 31:
		coarseY = 0
	default:
		coarseY++
	}
	p.v = p.v&^0x03E0 | coarseY<<5
}

func (p *PPU) copyHorizontalBits() {
	p.v = p.v&^0x041F | p.t&0x041F
}

func (p *PPU) copyVerticalBits() {
	p.v = p.v&^0x7BE0 | p.t&0x7BE0
}

/* pixel emission */

func (p *PPU) emitPixel() {
	x := p.Dot - 1

	var pixel, palette uint8
	if p.mask.GetBit(bitShowBG) && !(x < 8 && !p.mask.GetBit(bitShowBGLeft)) {
		sel := uint16(0x8000) >> p.fineX
		bit0 := uint8(0)
		bit1 := uint8(0)
		if p.bgShiftLow&sel != 0 {
			bit0 = 1
		}
		if p.bgShiftHigh&sel != 0 {
			bit1 = 1
		}
		pixel = bit1<<1 | bit0

		a0 := uint8(0)
		a1 := uint8(0)
		if p.atShiftLow&sel != 0 {
			a0 = 1
		}
		if p.atShiftHigh&sel != 0 {
			a1 = 1
		}
		palette = a1<<1 | a0
	}

	var paletteIdx uint8
	if pixel == 0 {
		paletteIdx = p.readPalette(0x00)
	} else {
		paletteIdx = p.readPalette(uint16(palette)<<2 | uint16(pixel))
	}

	if x >= 0 && x < Width && p.Scanline < Height {
		p.frameBuf[p.Scanline*Width+x] = SystemPalette[paletteIdx&0x3F]
	}
}
