package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const web01XML = `<domain type='kvm'>
  <name>web01</name>
  <uuid>0e6d4a12-77df-4be2-a6cf-60dcf4d86f88</uuid>
  <memory unit='KiB'>2097152</memory>
  <vcpu placement='static'>2</vcpu>
  <os>
    <type arch='x86_64'>hvm</type>
  </os>
  <devices>
    <disk type='file' device='disk'>
      <driver name='qemu' type='qcow2'/>
      <source file='/var/lib/images/web01.qcow2'/>
      <target dev='vda' bus='virtio'/>
    </disk>
    <disk type='file' device='disk'>
      <driver name='qemu' type='qcow2'/>
      <source file='/var/lib/images/web01-data.qcow2'/>
      <target dev='vdb' bus='virtio'/>
    </disk>
    <disk type='file' device='cdrom'>
      <driver name='qemu' type='raw'/>
      <source file='/var/lib/images/install.iso'/>
      <target dev='hdc' bus='ide'/>
      <readonly/>
    </disk>
    <interface type='bridge'>
      <mac address='52:54:00:aa:bb:cc'/>
      <source bridge='br0'/>
    </interface>
    <interface type='network'>
      <mac address='52:54:00:dd:ee:ff'/>
      <source network='default'/>
    </interface>
  </devices>
</domain>`

func TestParseDescriptor(t *testing.T) {
	desc, err := ParseDescriptor(web01XML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if desc.Name() != "web01" {
		t.Errorf("name: got %q", desc.Name())
	}
	if desc.UUID() != "0e6d4a12-77df-4be2-a6cf-60dcf4d86f88" {
		t.Errorf("uuid: got %q", desc.UUID())
	}
}

func TestParseDescriptorErrors(t *testing.T) {
	cases := map[string]string{
		"malformed": `<domain><name>x`,
		"no name":   `<domain type='kvm'><uuid>0e6d4a12-77df-4be2-a6cf-60dcf4d86f88</uuid></domain>`,
		"no uuid":   `<domain type='kvm'><name>x</name></domain>`,
	}
	for label, xml := range cases {
		if _, err := ParseDescriptor(xml); !errors.Is(err, ErrParse) {
			t.Errorf("%s: expected ErrParse, got %v", label, err)
		}
	}
}

func TestLoadDescriptorNotFound(t *testing.T) {
	_, err := LoadDescriptor(filepath.Join(t.TempDir(), "nope.xml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiskPaths(t *testing.T) {
	desc, err := ParseDescriptor(web01XML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	paths := desc.DiskPaths()
	want := []string{"/var/lib/images/web01.qcow2", "/var/lib/images/web01-data.qcow2"}
	if len(paths) != len(want) {
		t.Fatalf("got %d disk paths, want %d (%v)", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: got %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestSetDiskPath(t *testing.T) {
	desc, _ := ParseDescriptor(web01XML)

	if !desc.SetDiskPath("/var/lib/images/web01.qcow2", "/data/vms/new_web01.qcow2") {
		t.Fatal("SetDiskPath returned false for an existing disk")
	}
	if desc.SetDiskPath("/no/such/disk.qcow2", "/whatever") {
		t.Fatal("SetDiskPath returned true for a missing disk")
	}

	paths := desc.DiskPaths()
	if paths[0] != "/data/vms/new_web01.qcow2" {
		t.Errorf("rewritten path: got %q", paths[0])
	}
	if paths[1] != "/var/lib/images/web01-data.qcow2" {
		t.Errorf("untouched path changed: got %q", paths[1])
	}
}

func TestSaveAndReload(t *testing.T) {
	desc, _ := ParseDescriptor(web01XML)
	path := filepath.Join(t.TempDir(), "web01.xml")

	if err := desc.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := LoadDescriptor(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Name() != desc.Name() || reloaded.UUID() != desc.UUID() {
		t.Error("identity changed through a save/load cycle")
	}
	if len(reloaded.DiskPaths()) != 2 {
		t.Error("disk list changed through a save/load cycle")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	desc, _ := ParseDescriptor(web01XML)
	clone, err := desc.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}

	clone.SetName("other")
	clone.ClearMACs()

	if desc.Name() != "web01" {
		t.Error("clone mutation leaked into the original name")
	}
	xml, _ := desc.XML()
	if !strings.Contains(xml, "52:54:00:aa:bb:cc") {
		t.Error("clone mutation leaked into the original interfaces")
	}
}

func TestDumpCurrent(t *testing.T) {
	fake := NewFakeHypervisor()
	fake.AddMachine("web01", web01XML, StateShutOff)

	desc, err := DumpCurrent(fake, "web01")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if desc.Name() != "web01" {
		t.Errorf("name: got %q", desc.Name())
	}

	if _, err := DumpCurrent(fake, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown machine, got %v", err)
	}

	// a backup must never be taken from a mangled export
	fake.AddMachine("bad", "<domain></do", StateShutOff)
	if _, err := DumpCurrent(fake, "bad"); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse for mangled export, got %v", err)
	}
}

func fileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}
