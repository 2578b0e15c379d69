package app

import (
	"fmt"

	libvirt "libvirt.org/go/libvirt"
)

// LibvirtHypervisor implements Hypervisor over a libvirt connection
type LibvirtHypervisor struct {
	connection *libvirt.Connect
	uri        string
}

// NewLibvirtHypervisor connects to libvirtd at the given URI
func NewLibvirtHypervisor(uri string) (*LibvirtHypervisor, error) {
	conn, err := libvirt.NewConnect(uri)
	if err != nil {
		return nil, fmt.Errorf("connecting to libvirt at '%s': %s", uri, err)
	}

	return &LibvirtHypervisor{
		connection: conn,
		uri:        uri,
	}, nil
}

// getConnection returns the current connection, reconnecting if it died
func (lv *LibvirtHypervisor) getConnection() (*libvirt.Connect, error) {
	alive, err := lv.connection.IsAlive()
	if err != nil || !alive {
		lv.connection.Close()
		conn, errN := libvirt.NewConnect(lv.uri)
		if errN != nil {
			return nil, errN
		}
		lv.connection = conn
	}
	return lv.connection, nil
}

// getDomainByName returns a domain or nil if the domain is not found.
// Remember to call dom.Free() after use.
func (lv *LibvirtHypervisor) getDomainByName(name string) (*libvirt.Domain, error) {
	conn, errC := lv.getConnection()
	if errC != nil {
		return nil, errC
	}

	dom, err := conn.LookupDomainByName(name)
	if err != nil {
		virtErr, ok := err.(libvirt.Error)
		if ok && virtErr.Code == libvirt.ERR_NO_DOMAIN {
			return nil, nil // not found, but no error
		}
		return nil, err
	}
	return dom, nil
}

// ListNames returns the names of all registered machines (active or not)
func (lv *LibvirtHypervisor) ListNames() ([]string, error) {
	conn, errC := lv.getConnection()
	if errC != nil {
		return nil, errC
	}

	doms, err := conn.ListAllDomains(0)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doms))
	for _, dom := range doms {
		name, errN := dom.GetName()
		dom.Free()
		if errN != nil {
			return nil, errN
		}
		names = append(names, name)
	}
	return names, nil
}

// State returns the current machine state
func (lv *LibvirtHypervisor) State(name string) (MachineState, error) {
	dom, err := lv.getDomainByName(name)
	if err != nil {
		return StateOther, err
	}
	if dom == nil {
		return StateOther, fmt.Errorf("machine '%s': %w", name, ErrNotFound)
	}
	defer dom.Free()

	state, _, errG := dom.GetState()
	if errG != nil {
		return StateOther, errG
	}

	switch state {
	case libvirt.DOMAIN_RUNNING:
		return StateRunning, nil
	case libvirt.DOMAIN_SHUTOFF:
		return StateShutOff, nil
	default:
		return StateOther, nil
	}
}

// Shutdown requests a graceful shutdown and returns immediately
func (lv *LibvirtHypervisor) Shutdown(name string) error {
	dom, err := lv.getDomainByName(name)
	if err != nil {
		return err
	}
	if dom == nil {
		return fmt.Errorf("machine '%s': %w", name, ErrNotFound)
	}
	defer dom.Free()

	return dom.Shutdown()
}

// Start boots a machine
func (lv *LibvirtHypervisor) Start(name string) error {
	dom, err := lv.getDomainByName(name)
	if err != nil {
		return err
	}
	if dom == nil {
		return fmt.Errorf("machine '%s': %w", name, ErrNotFound)
	}
	defer dom.Free()

	return dom.Create()
}

// ExportConfig returns the machine's current descriptor document
func (lv *LibvirtHypervisor) ExportConfig(name string) (string, error) {
	dom, err := lv.getDomainByName(name)
	if err != nil {
		return "", err
	}
	if dom == nil {
		return "", fmt.Errorf("machine '%s': %w", name, ErrNotFound)
	}
	defer dom.Free()

	return dom.GetXMLDesc(0)
}

// Define registers a new machine from a descriptor document
func (lv *LibvirtHypervisor) Define(xml string) error {
	conn, errC := lv.getConnection()
	if errC != nil {
		return errC
	}

	dom, err := conn.DomainDefineXML(xml)
	if err != nil {
		return err
	}
	dom.Free()
	return nil
}

// Close closes the libvirt connection
func (lv *LibvirtHypervisor) Close() error {
	_, err := lv.connection.Close()
	return err
}
