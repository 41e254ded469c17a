package cartridge

// TestROM describes a synthetic ROM image, used by tests across
// the emulator that need a cartridge which passes validation.
type TestROM struct {
	Title    string
	Type     Type
	ROMCode  uint8 // ROM size code, the image is 32kB << ROMCode
	RAMCode  uint8
	Program  []byte // copied to 0x0150, where the entry point jumps
	Patches  map[int][]byte
	BadLogo  bool
	Checksum *uint8 // overrides the computed header checksum
}

// Build assembles the ROM image. Every bank holds its own bank
// number in its last byte, so bank switching can be observed by
// reading 0x7FFF.
func (t TestROM) Build() []byte {
	rom := make([]byte, 0x8000<<t.ROMCode)
	for bank := 0; bank < len(rom)/romBankSize; bank++ {
		rom[bank*romBankSize+0x3FFF] = uint8(bank)
	}

	// entry point: NOP; JP 0x0150
	copy(rom[0x100:], []byte{0x00, 0xC3, 0x50, 0x01})
	copy(rom[0x104:0x134], Logo[:])
	if t.BadLogo {
		rom[0x104] ^= 0xFF
	}
	title := t.Title
	if title == "" {
		title = "TEST"
	}
	copy(rom[0x134:0x143], title)
	rom[0x147] = uint8(t.Type)
	rom[0x148] = t.ROMCode
	rom[0x149] = t.RAMCode
	rom[0x14A] = 0x01
	rom[0x14B] = 0x01

	copy(rom[0x150:], t.Program)
	for offset, data := range t.Patches {
		copy(rom[offset:], data)
	}

	rom[0x14D] = HeaderChecksum(rom)
	if t.Checksum != nil {
		rom[0x14D] = *t.Checksum
	}
	global := GlobalChecksum(rom)
	rom[0x14E] = uint8(global >> 8)
	rom[0x14F] = uint8(global)

	return rom
}
