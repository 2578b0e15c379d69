package app

import (
	"fmt"
	"os"

	libvirtxml "libvirt.org/go/libvirtxml"
)

// Descriptor is one machine's configuration document. It wraps the parsed
// domain tree and exposes only the accessors the backup/restore pipeline
// needs; anything else in the document passes through untouched.
type Descriptor struct {
	domain *libvirtxml.Domain
}

// ParseDescriptor parses a descriptor document. Missing name or uuid is
// reported here, not by later pipeline steps.
func ParseDescriptor(xml string) (*Descriptor, error) {
	domain := &libvirtxml.Domain{}
	if err := domain.Unmarshal(xml); err != nil {
		return nil, fmt.Errorf("%s: %w", err, ErrParse)
	}
	if domain.Name == "" {
		return nil, fmt.Errorf("descriptor has no name: %w", ErrParse)
	}
	if domain.UUID == "" {
		return nil, fmt.Errorf("descriptor has no uuid: %w", ErrParse)
	}
	return &Descriptor{domain: domain}, nil
}

// LoadDescriptor reads and parses a descriptor file
func LoadDescriptor(path string) (*Descriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %s: %w", path, err, ErrIO)
	}
	desc, err := ParseDescriptor(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}

// DumpCurrent fetches and parses the live descriptor of a registered machine
func DumpCurrent(hv Hypervisor, name string) (*Descriptor, error) {
	xml, err := hv.ExportConfig(name)
	if err != nil {
		return nil, err
	}
	return ParseDescriptor(xml)
}

// Name returns the machine name
func (desc *Descriptor) Name() string {
	return desc.domain.Name
}

// SetName changes the machine name
func (desc *Descriptor) SetName(name string) {
	desc.domain.Name = name
}

// UUID returns the machine UUID
func (desc *Descriptor) UUID() string {
	return desc.domain.UUID
}

// SetUUID changes the machine UUID
func (desc *Descriptor) SetUUID(uuid string) {
	desc.domain.UUID = uuid
}

// ClearMACs removes the MAC address of every network interface, leaving the
// interfaces otherwise intact
func (desc *Descriptor) ClearMACs() {
	if desc.domain.Devices == nil {
		return
	}
	for i := range desc.domain.Devices.Interfaces {
		desc.domain.Devices.Interfaces[i].MAC = nil
	}
}

// DiskPaths returns the source file path of every file-backed disk device,
// in document order. CDROM and other non-disk devices are excluded.
func (desc *Descriptor) DiskPaths() []string {
	var paths []string
	if desc.domain.Devices == nil {
		return paths
	}
	for _, disk := range desc.domain.Devices.Disks {
		if disk.Device != "disk" {
			continue
		}
		if disk.Source == nil || disk.Source.File == nil || disk.Source.File.File == "" {
			continue
		}
		paths = append(paths, disk.Source.File.File)
	}
	return paths
}

// SetDiskPath rewrites the source file of the disk currently pointing at
// oldPath. Returns false if no such disk exists.
func (desc *Descriptor) SetDiskPath(oldPath string, newPath string) bool {
	if desc.domain.Devices == nil {
		return false
	}
	for i := range desc.domain.Devices.Disks {
		disk := &desc.domain.Devices.Disks[i]
		if disk.Source != nil && disk.Source.File != nil && disk.Source.File.File == oldPath {
			disk.Source.File.File = newPath
			return true
		}
	}
	return false
}

// XML returns the document form of the descriptor
func (desc *Descriptor) XML() (string, error) {
	return desc.domain.Marshal()
}

// Clone returns a deep copy (marshal/unmarshal round trip)
func (desc *Descriptor) Clone() (*Descriptor, error) {
	xml, err := desc.domain.Marshal()
	if err != nil {
		return nil, err
	}
	domain := &libvirtxml.Domain{}
	if err := domain.Unmarshal(xml); err != nil {
		return nil, err
	}
	return &Descriptor{domain: domain}, nil
}

// Save writes the descriptor document to path
func (desc *Descriptor) Save(path string) error {
	xml, err := desc.domain.Marshal()
	if err != nil {
		return fmt.Errorf("%s: %w", err, ErrIO)
	}
	if err := os.WriteFile(path, []byte(xml), 0644); err != nil {
		return fmt.Errorf("%s: %s: %w", path, err, ErrIO)
	}
	return nil
}
