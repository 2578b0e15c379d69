package app

import (
	"fmt"
	"sort"

	libvirtxml "libvirt.org/go/libvirtxml"
)

// FakeMachine is one machine registered in a FakeHypervisor
type FakeMachine struct {
	XML   string
	State MachineState

	// number of State() calls before a requested shutdown completes
	// (0 = immediate), lets tests exercise the poll loop
	ShutdownLag int

	shuttingDown bool
}

// FakeHypervisor is an in-memory Hypervisor for tests
type FakeHypervisor struct {
	Machines map[string]*FakeMachine

	// every document handed to Define, in order
	Defined []string

	// forced failures
	DefineErr   error
	StartErr    error
	ShutdownErr error

	StartCalls    int
	ShutdownCalls int
}

// NewFakeHypervisor returns an empty FakeHypervisor
func NewFakeHypervisor() *FakeHypervisor {
	return &FakeHypervisor{
		Machines: make(map[string]*FakeMachine),
	}
}

// AddMachine registers a machine with the given descriptor document
func (fake *FakeHypervisor) AddMachine(name string, xml string, state MachineState) *FakeMachine {
	machine := &FakeMachine{
		XML:   xml,
		State: state,
	}
	fake.Machines[name] = machine
	return machine
}

func (fake *FakeHypervisor) ListNames() ([]string, error) {
	names := make([]string, 0, len(fake.Machines))
	for name := range fake.Machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (fake *FakeHypervisor) State(name string) (MachineState, error) {
	machine, exists := fake.Machines[name]
	if !exists {
		return StateOther, fmt.Errorf("machine '%s': %w", name, ErrNotFound)
	}
	if machine.shuttingDown {
		if machine.ShutdownLag > 0 {
			machine.ShutdownLag--
		} else {
			machine.shuttingDown = false
			machine.State = StateShutOff
		}
	}
	return machine.State, nil
}

func (fake *FakeHypervisor) Shutdown(name string) error {
	fake.ShutdownCalls++
	if fake.ShutdownErr != nil {
		return fake.ShutdownErr
	}
	machine, exists := fake.Machines[name]
	if !exists {
		return fmt.Errorf("machine '%s': %w", name, ErrNotFound)
	}
	if machine.State == StateRunning {
		machine.shuttingDown = true
	}
	return nil
}

func (fake *FakeHypervisor) Start(name string) error {
	fake.StartCalls++
	if fake.StartErr != nil {
		return fake.StartErr
	}
	machine, exists := fake.Machines[name]
	if !exists {
		return fmt.Errorf("machine '%s': %w", name, ErrNotFound)
	}
	machine.State = StateRunning
	return nil
}

func (fake *FakeHypervisor) ExportConfig(name string) (string, error) {
	machine, exists := fake.Machines[name]
	if !exists {
		return "", fmt.Errorf("machine '%s': %w", name, ErrNotFound)
	}
	return machine.XML, nil
}

// Define parses the document like libvirt would and registers the machine
// shut off. It is atomic: on error nothing is registered.
func (fake *FakeHypervisor) Define(xml string) error {
	if fake.DefineErr != nil {
		return fake.DefineErr
	}

	domain := &libvirtxml.Domain{}
	if err := domain.Unmarshal(xml); err != nil {
		return err
	}
	if domain.Name == "" {
		return fmt.Errorf("descriptor has no name")
	}
	if _, exists := fake.Machines[domain.Name]; exists {
		return fmt.Errorf("machine '%s' already exists", domain.Name)
	}

	fake.Defined = append(fake.Defined, xml)
	fake.AddMachine(domain.Name, xml, StateShutOff)
	return nil
}

func (fake *FakeHypervisor) Close() error {
	return nil
}
