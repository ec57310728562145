package input

import (
	"testing"

	"github.com/holovati/nessie/hwio"
	"github.com/holovati/nessie/ppu"
)

type fakeCPU struct {
	ticks   uint64
	stalled int
}

func (f *fakeCPU) Stall(n int)   { f.stalled += n }
func (f *fakeCPU) Ticks() uint64 { return f.ticks }

func newTestShim(ticks uint64) (*Shim, *hwio.Bus, *fakeCPU) {
	bus := hwio.NewBus("cpu")
	ram := hwio.NewRAM("source", 0x10000)
	bus.Attach(ram, 0x0000, 0x10000)

	cpu := &fakeCPU{ticks: ticks}
	s := New()
	s.Attach(bus, cpu)
	return s, bus, cpu
}

// newTestShimWithPPU wires a real PPU's register window at $2000-$3FFF so
// the OAM-DMA transfer exercises OAMADDR auto-increment exactly as it
// would during normal operation.
func newTestShimWithPPU(ticks uint64) (*Shim, *hwio.Bus, *ppu.PPU) {
	bus := hwio.NewBus("cpu")
	ram := hwio.NewRAM("source", 0x10000)
	bus.Attach(ram, 0x0000, 0x10000)

	p := ppu.New()
	p.PowerOn(hwio.NewBus("ppu"))
	for base := uint32(0x2000); base < 0x4000; base += 8 {
		bus.Attach(p, base, 8)
	}

	cpu := &fakeCPU{ticks: ticks}
	s := New()
	s.Attach(bus, cpu)
	return s, bus, p
}

func TestJoypadStrobeLatchesAndShiftsMSBFirst(t *testing.T) {
	s, _, _ := newTestShim(0)
	s.Snapshot = Snapshot{P1: ButtonA | ButtonStart}

	s.Write8(0x16, 1) // strobe high: continuously reloads on read
	first := s.Read8(0x16)
	if first&1 != 1 {
		t.Fatalf("first read bit = %d, want 1 (A pressed, MSB-first)", first&1)
	}

	s.Write8(0x16, 0) // strobe falls: latches once more, then shifts on each read
	bits := make([]uint8, 8)
	for i := range bits {
		bits[i] = s.Read8(0x16) & 1
	}
	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0} // A,B,Select,Start,Up,Down,Left,Right
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("bit %d = %d, want %d (full sequence %v)", i, bits[i], want[i], bits)
		}
	}
}

func TestJoypadReportsOnesAfterEightReads(t *testing.T) {
	s, _, _ := newTestShim(0)
	s.Snapshot = Snapshot{P1: 0}
	s.Write8(0x16, 1)
	s.Write8(0x16, 0)
	for i := 0; i < 8; i++ {
		s.Read8(0x16)
	}
	if got := s.Read8(0x16) & 1; got != 1 {
		t.Fatalf("9th read bit = %d, want 1", got)
	}
}

func TestOAMDMAStallParity(t *testing.T) {
	s, _, cpu := newTestShim(1) // odd tick count
	s.Write8(0x14, 0x02)
	if cpu.stalled != 513 {
		t.Fatalf("stalled = %d, want 513 for odd tick count", cpu.stalled)
	}
}

func TestOAMDMAStallParityEven(t *testing.T) {
	s, _, cpu := newTestShim(2)
	s.Write8(0x14, 0x02)
	if cpu.stalled != 514 {
		t.Fatalf("stalled = %d, want 514 for even tick count", cpu.stalled)
	}
}

// S5: 256 bytes starting at $0200 end up in OAM.
func TestScenarioS5OAMDMATransfersSourcePage(t *testing.T) {
	s, bus, p := newTestShimWithPPU(1)
	for i := 0; i < 256; i++ {
		bus.Write8(0x0200+uint16(i), byte(i))
	}

	s.Write8(0x14, 0x02)
	for s.DMAActive() {
		s.Tick()
	}

	for i := 0; i < 256; i++ {
		if got, want := p.OAM[i], byte(i); got != want {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, got, want)
		}
	}
}
