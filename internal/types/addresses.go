package types

// Bit masks, shared by the register definitions of every device.
const (
	Bit0 = 1 << iota
	Bit1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit7
)

// HardwareAddress represents the address of a hardware
// register of the Game Boy. The hardware IO are mapped
// to memory addresses 0xFF00 - 0xFF7F & 0xFFFF.
type HardwareAddress = uint16

const (
	// P1 is the address of the P1 hardware register. The P1
	// hardware register is used to select the input keys to
	// be read by the CPU, and to read the state of the joypad.
	P1 HardwareAddress = 0xFF00
	// SB is the address of the SB hardware register. The SB
	// hardware register holds the byte being shifted out of
	// (and into) the serial port.
	SB HardwareAddress = 0xFF01
	// SC is the address of the SC hardware register. The SC
	// hardware register is used to control the serial port.
	SC HardwareAddress = 0xFF02
	// DIV is the address of the DIV hardware register. The DIV
	// hardware register is incremented at a rate of 16384Hz. Internally
	// it is a 16-bit register, but only the upper 8 bits may be read.
	DIV HardwareAddress = 0xFF04
	// TIMA is the address of the TIMA hardware register. When TIMA
	// overflows, it is reset to the value of TMA and a timer
	// interrupt is requested.
	TIMA HardwareAddress = 0xFF05
	// TMA is the address of the TMA hardware register. The TMA
	// hardware register is loaded into TIMA when it overflows.
	TMA HardwareAddress = 0xFF06
	// TAC is the address of the TAC hardware register. The TAC
	// hardware register is used to control the timer.
	TAC HardwareAddress = 0xFF07
	// IF is the address of the IF hardware register. The IF
	// hardware register is used to request interrupts.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F
	// NR10 is the first of the sound registers, which span
	// 0xFF10 - 0xFF3F (including wave RAM).
	NR10 HardwareAddress = 0xFF10
	// NR52 is the sound on/off register.
	NR52 HardwareAddress = 0xFF26
	// WaveRAM is the start of the 16 byte wave pattern RAM.
	WaveRAM HardwareAddress = 0xFF30
	// LCDC is the address of the LCDC hardware register. The LCDC
	// hardware register is used to control the LCD.
	LCDC HardwareAddress = 0xFF40
	// STAT is the address of the STAT hardware register. The STAT
	// hardware register contains the status of the LCD and the
	// interrupt enable bits of the LCD STAT interrupt.
	STAT HardwareAddress = 0xFF41
	// SCY is the address of the SCY hardware register. The SCY
	// hardware register is used to scroll the background vertically.
	SCY HardwareAddress = 0xFF42
	// SCX is the address of the SCX hardware register. The SCX
	// hardware register is used to scroll the background horizontally.
	SCX HardwareAddress = 0xFF43
	// LY is the address of the LY hardware register. The LY hardware
	// register holds the current scanline being drawn (0-153).
	LY HardwareAddress = 0xFF44
	// LYC is the address of the LYC hardware register. When LY equals
	// LYC, the coincidence flag of STAT is set.
	LYC HardwareAddress = 0xFF45
	// DMA is the address of the DMA hardware register. Writing to it
	// starts an OAM DMA transfer from the page XX00.
	DMA HardwareAddress = 0xFF46
	// BGP is the address of the BGP hardware register, the background
	// and window palette.
	BGP HardwareAddress = 0xFF47
	// OBP0 is the address of the first object palette.
	OBP0 HardwareAddress = 0xFF48
	// OBP1 is the address of the second object palette.
	OBP1 HardwareAddress = 0xFF49
	// WY is the Y position of the window.
	WY HardwareAddress = 0xFF4A
	// WX is the X position of the window, plus 7.
	WX HardwareAddress = 0xFF4B
	// BDIS is the boot ROM disable register. Writing a non-zero
	// value unmaps the boot ROM for the rest of the session.
	BDIS HardwareAddress = 0xFF50
	// IE is the address of the IE hardware register. Bit layout
	// matches IF.
	IE HardwareAddress = 0xFFFF
)
