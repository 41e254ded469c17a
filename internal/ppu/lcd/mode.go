package lcd

// Mode represents a mode of the LCD, as reported in the lower two
// bits of STAT.
type Mode uint8

const (
	// HBlank is the horizontal blanking mode. The CPU can access both the display RAM and OAM.
	HBlank Mode = iota
	// VBlank is the vertical blanking mode. The CPU can access both the display RAM and OAM.
	VBlank
	// OAM is the OAM scan mode, where the PPU searches for the objects on the line.
	OAM
	// VRAM is the pixel transfer mode.
	VRAM
)

// Duration returns the number of dots spent in the mode on a
// single line.
func (m Mode) Duration() uint16 {
	switch m {
	case OAM:
		return 80
	case VRAM:
		return 172
	case HBlank:
		return 204
	default:
		return 456
	}
}

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case OAM:
		return "OAM"
	case VRAM:
		return "VRAM"
	}
	return "Unknown"
}
