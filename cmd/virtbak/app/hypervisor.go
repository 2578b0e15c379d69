package app

// MachineState is the coarse machine state the orchestrators care about
type MachineState int

// Anything that is neither running nor cleanly shut off (paused, crashed,
// pmsuspended, …) maps to StateOther.
const (
	StateOther MachineState = iota
	StateRunning
	StateShutOff
)

func (state MachineState) String() string {
	switch state {
	case StateRunning:
		return "running"
	case StateShutOff:
		return "shut off"
	default:
		return "other"
	}
}

// Hypervisor is the narrow surface of the virtualization management layer
// used by the orchestrators. The real implementation talks to libvirt, tests
// use FakeHypervisor.
type Hypervisor interface {
	// ListNames returns the names of all registered machines
	ListNames() ([]string, error)

	// State returns the current state of a machine (ErrNotFound if the
	// machine is not registered)
	State(name string) (MachineState, error)

	// Shutdown requests a graceful shutdown (ACPI), it does not wait
	Shutdown(name string) error

	// Start boots a machine
	Start(name string) error

	// ExportConfig returns the machine's current descriptor document
	ExportConfig(name string) (string, error)

	// Define registers a new machine from a descriptor document. It is
	// atomic: on error, no machine was registered.
	Define(xml string) error

	Close() error
}
