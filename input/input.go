// Package input implements the controller and OAM-DMA register window at
// CPU $4000-$401F: joypad shift-register polling at $4016/$4017, and the
// OAM-DMA trigger at $4014.
package input

import "github.com/holovati/nessie/hwio"

// Button bits within a Snapshot byte, MSB-first to match the wire order
// this core reports on $4016/$4017 reads (A first, then B, Select, Start,
// Up, Down, Left, Right). Real hardware shifts LSB-first; this core fixes
// MSB-first, matching the implemented wire format.
const (
	ButtonA      uint8 = 1 << 7
	ButtonB      uint8 = 1 << 6
	ButtonSelect uint8 = 1 << 5
	ButtonStart  uint8 = 1 << 4
	ButtonUp     uint8 = 1 << 3
	ButtonDown   uint8 = 1 << 2
	ButtonLeft   uint8 = 1 << 1
	ButtonRight  uint8 = 1 << 0
)

// Snapshot is the host-provided button state for both controllers,
// sampled by the shim whenever the strobe bit is active.
type Snapshot struct {
	P1, P2 uint8
}

// cpuStaller is the slice of *cpu.CPU the shim needs: adding DMA stall
// credit and reading the tick parity that decides 513 vs. 514 cycles.
type cpuStaller interface {
	Stall(n int)
	Ticks() uint64
}

// Shim is the $4000-$401F register window device. It owns no PPU
// reference: OAM-DMA writes land through the CPU bus at $2004 exactly as
// real hardware's DMA unit does, so the PPU's own OAMADDR auto-increment
// does the rest.
type Shim struct {
	bus *hwio.Bus
	cpu cpuStaller

	Snapshot Snapshot // set by the host before each frame/poll

	prevStrobe, strobe bool
	shift              [2]uint8

	dmaActive bool
	dmaPage   uint8
	dmaIndex  int
}

// New returns an unattached shim; call Attach before use.
func New() *Shim { return &Shim{} }

// Attach installs the shim's register window on cpuBus and records the
// CPU it will stall during OAM-DMA.
func (s *Shim) Attach(cpuBus *hwio.Bus, cpu cpuStaller) {
	s.bus = cpuBus
	s.cpu = cpu
	cpuBus.Attach(hwio.FuncDevice{ReadFn: s.Read8, WriteFn: s.Write8}, 0x4000, 0x0020)
}

func (s *Shim) Read8(offset uint16) uint8 {
	switch offset {
	case 0x16:
		return s.readJoy(0)
	case 0x17:
		return s.readJoy(1)
	default:
		return 0x00
	}
}

func (s *Shim) Write8(offset uint16, val uint8) {
	switch offset {
	case 0x14:
		s.startOAMDMA(val)
	case 0x16:
		s.writeStrobe(val)
	}
}

func (s *Shim) writeStrobe(val uint8) {
	s.prevStrobe = s.strobe
	s.strobe = val&0x01 != 0
	if s.prevStrobe && !s.strobe {
		s.latch()
	}
}

func (s *Shim) latch() {
	s.shift[0] = s.Snapshot.P1
	s.shift[1] = s.Snapshot.P2
}

// readJoy returns the next bit of the selected port's shift register,
// MSB-first. After 8 bits every further read reports 1, matching a
// standard controller's behavior once its register has fully drained; bits
// 1-6 of the returned byte are the open-bus filler real hardware exposes
// here.
func (s *Shim) readJoy(port int) uint8 {
	if s.strobe {
		s.latch()
	}
	bit := (s.shift[port] >> 7) & 1
	s.shift[port] = (s.shift[port] << 1) | 1
	return 0x40 | bit
}

// startOAMDMA schedules the 256-byte transfer from page*0x100 into
// OAMDATA and stalls the CPU for the documented parity-dependent duration.
func (s *Shim) startOAMDMA(page uint8) {
	stall := 514
	if s.cpu.Ticks()%2 == 1 {
		stall = 513
	}
	s.cpu.Stall(stall)

	s.dmaActive = true
	s.dmaPage = page
	s.dmaIndex = 0
}

// Tick performs one byte of a pending OAM-DMA transfer. The orchestrator
// calls this at CPU-cycle cadence regardless of the CPU's own stall state,
// since the DMA unit — not the CPU — is driving the bus during the stall.
func (s *Shim) Tick() {
	if !s.dmaActive {
		return
	}
	addr := uint16(s.dmaPage)<<8 | uint16(s.dmaIndex)
	val := s.bus.Read8(addr)
	s.bus.Write8(0x2004, val)
	s.dmaIndex++
	if s.dmaIndex == 256 {
		s.dmaActive = false
		s.dmaIndex = 0
	}
}

// DMAActive reports whether an OAM-DMA transfer is still in progress.
func (s *Shim) DMAActive() bool { return s.dmaActive }
