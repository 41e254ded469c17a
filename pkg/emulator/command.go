package emulator

import (
	"encoding/binary"
	"math"
)

// CommandPacket is a command packet that is sent to the
// emulator to control it.
type CommandPacket struct {
	Command Command
	Data    []byte
}

// Command is a command that is sent to the emulator to
// control it.
type Command int

// ResponsePacket is a response packet that is sent
// from the emulator to the client.
type ResponsePacket struct {
	Command Command
	Data    []byte
	Error   error
}

const (
	// CommandPause pauses the emulator.
	CommandPause Command = iota
	// CommandResume resumes the emulator.
	CommandResume
	// CommandClose closes the emulator.
	CommandClose
	// CommandReset resets the emulator.
	CommandReset
	// CommandLoadROM loads the ROM held in Data into the emulator.
	CommandLoadROM
	// CommandSaveState returns a save state in the response Data.
	CommandSaveState
	// CommandLoadState restores the save state held in Data.
	CommandLoadState
	// CommandSetSpeed sets the speed of the emulator, Data holds
	// the multiplier as a little endian float64.
	CommandSetSpeed
)

func (c Command) String() string {
	switch c {
	case CommandPause:
		return "Pause"
	case CommandResume:
		return "Resume"
	case CommandClose:
		return "Close"
	case CommandReset:
		return "Reset"
	case CommandLoadROM:
		return "LoadROM"
	case CommandSaveState:
		return "SaveState"
	case CommandLoadState:
		return "LoadState"
	case CommandSetSpeed:
		return "SetSpeed"
	default:
		return "Unknown"
	}
}

// SetSpeed returns the command packet that changes the speed of
// the emulator to the given multiplier.
func SetSpeed(speed float64) CommandPacket {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(speed))
	return CommandPacket{Command: CommandSetSpeed, Data: data}
}

// Speed decodes the multiplier of a CommandSetSpeed packet,
// returning false if the data is malformed.
func (p CommandPacket) Speed() (float64, bool) {
	if len(p.Data) != 8 {
		return 0, false
	}
	speed := math.Float64frombits(binary.LittleEndian.Uint64(p.Data))
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0, false
	}
	return speed, true
}
