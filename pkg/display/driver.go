// Package display defines the interface between the emulator and the
// frontends that show its frames and collect its input. Drivers
// register themselves with Install from their init function, and are
// selected by name at runtime.
package display

import (
	"flag"
	"fmt"
	"sort"
	"strconv"

	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
	"github.com/thelolagemann/gomeboy-dmg/pkg/emulator"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

// Driver is the interface that wraps the basic methods for a
// display driver.
type Driver interface {
	// Initialize initializes the display driver by attaching it to
	// the emulator that is using it.
	Initialize(emu Emulator)
	// Start the display driver. Frames are received on fb as RGB24,
	// and button presses are sent on pressed and released. Start
	// blocks until the driver is closed.
	Start(fb <-chan []byte, pressed, released chan<- joypad.Button) error
	// Stop the display driver.
	Stop() error
}

// Emulator is the interface that wraps the basic methods for an
// emulator to implement in order for the driver to be able to
// interact with it. This is used to allow the driver to
// control the emulator. The emulator is passed to the driver
// during initialization.
type Emulator interface {
	// SendCommand sends a command packet to the emulator.
	SendCommand(command emulator.CommandPacket) emulator.ResponsePacket
	// Speed returns the speed of the emulator.
	Speed() float64
	// Status returns the status of the emulator.
	Status() emulator.Status
	// Log returns the logger of the emulator, which the driver logs
	// through.
	Log() log.Logger
}

var (
	Pause  = emulator.CommandPacket{Command: emulator.CommandPause}
	Resume = emulator.CommandPacket{Command: emulator.CommandResume}
	Reset  = emulator.CommandPacket{Command: emulator.CommandReset}
	Close  = emulator.CommandPacket{Command: emulator.CommandClose}

	SaveState = emulator.CommandPacket{Command: emulator.CommandSaveState}
)

// DriverOption is a display driver option. This is used to
// configure a display driver.
type DriverOption struct {
	Name        string // name of the option
	Default     any    // default value of the option
	Value       any    // pointer to the value of the option
	Description string // description of the option
	Type        string // "bool", "string", "float"
}

// InstalledDriver is a driver that has been installed. This is
// used to allow drivers to register their name.
type InstalledDriver struct {
	Name    string
	Options []DriverOption
	Driver
}

// InstalledDrivers is a list of all the installed drivers. This
// variable is exported so that it can be used by the main
// program to determine which drivers can be used. Drivers should
// call display.Install in their init() function.
var InstalledDrivers []*InstalledDriver

// GetDriver returns the driver with the given name, or nil if
// no driver with that name is installed. The name "auto" returns
// the first installed driver.
func GetDriver(name string) Driver {
	if name == "auto" {
		if len(InstalledDrivers) == 0 {
			return nil
		}
		return InstalledDrivers[0].Driver
	}
	for _, driver := range InstalledDrivers {
		if driver.Name == name {
			return driver.Driver
		}
	}

	return nil
}

// Names returns the names of the installed drivers.
func Names() []string {
	names := make([]string, 0, len(InstalledDrivers))
	for _, driver := range InstalledDrivers {
		names = append(names, driver.Name)
	}
	return names
}

// Install registers a display driver with the given name.
func Install(name string, driver Driver, options []DriverOption) {
	InstalledDrivers = append(InstalledDrivers, &InstalledDriver{
		Name:    name,
		Options: options,
		Driver:  driver,
	})
}

// RegisterFlags iterates through all the display driver options and
// registers them with fs. Options that only one driver has are
// prefixed with its name, e.g. -web-addr, while options shared by
// several drivers are registered once, unprefixed, and set on all of
// them.
func RegisterFlags(fs *flag.FlagSet) {
	optionCounts := make(map[string]int)
	opts := make(map[string][]DriverOption)
	prefixes := make(map[string]string)

	for _, driver := range InstalledDrivers {
		for _, opt := range driver.Options {
			// track how many times an option is used
			optionCounts[opt.Name]++
			opts[opt.Name] = append(opts[opt.Name], opt)
			prefixes[opt.Name] = driver.Name
		}
	}

	names := make([]string, 0, len(optionCounts))
	for o := range optionCounts {
		names = append(names, o)
	}
	sort.Strings(names)

	for _, o := range names {
		opt := opts[o][0]
		if optionCounts[o] == 1 {
			// this option is unique and should be prefixed
			optName := fmt.Sprintf("%s-%s", prefixes[o], opt.Name)
			switch opt.Type {
			case "string":
				fs.StringVar(opt.Value.(*string), optName, opt.Default.(string), opt.Description)
			case "bool":
				fs.BoolVar(opt.Value.(*bool), optName, opt.Default.(bool), opt.Description)
			case "float":
				fs.Float64Var(opt.Value.(*float64), optName, opt.Default.(float64), opt.Description)
			}
			continue
		}

		// this requires an option merge
		multi := &multiValue{defaultValue: opt.Default}
		for _, mOpt := range opts[o] {
			multi.values = append(multi.values, mOpt.Value)
			switch v := mOpt.Value.(type) {
			case *string:
				*v = opt.Default.(string)
			case *bool:
				*v = opt.Default.(bool)
			case *float64:
				*v = opt.Default.(float64)
			}
		}
		fs.Var(multi, o, opt.Description)
	}
}

type multiValue struct {
	values       []any
	defaultValue any
}

func (m *multiValue) String() string {
	if m == nil {
		return ""
	}
	switch v := m.defaultValue.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (m *multiValue) Set(value string) error {
	// update all the pointers with the provided value
	for _, ptr := range m.values {
		switch p := ptr.(type) {
		case *string:
			*p = value
		case *bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			*p = b
		case *float64:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return err
			}
			*p = f
		default:
			return fmt.Errorf("display: unknown option type %T", ptr)
		}
	}

	return nil
}

func (m *multiValue) IsBoolFlag() bool {
	_, isBool := m.defaultValue.(bool)
	return isBool
}
