package cpu

import (
	"strings"
	"testing"

	"github.com/holovati/nessie/hwio"
)

func TestTraceLineFormatsImmediateLDA(t *testing.T) {
	bus := hwio.NewBus("test")
	ram := hwio.NewRAM("ram", 0x10000)
	bus.Attach(ram, 0, 0x10000)
	ram.Write8(0xFFFC, 0x00)
	ram.Write8(0xFFFD, 0x80)
	ram.Write8(0x8000, 0xA9) // LDA #$42
	ram.Write8(0x8001, 0x42)

	c := New()
	c.PowerOn(bus)

	line := c.TraceLine()
	if !strings.HasPrefix(line, "8000  A9 42") {
		t.Fatalf("trace line = %q, want prefix %q", line, "8000  A9 42")
	}
	if !strings.Contains(line, "LDA") || !strings.Contains(line, "#$42") {
		t.Fatalf("trace line = %q, want mnemonic LDA and operand #$42", line)
	}
}
