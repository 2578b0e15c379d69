package app

import (
	"github.com/gofrs/uuid"
)

// RewriteIdentity returns a copy of the descriptor carrying a new identity:
// the given name, a freshly generated UUID (always regenerated, so repeated
// restores of the same backup can never share one), and no MAC address on
// any interface (the platform assigns fresh ones on next start).
//
// The input descriptor is never mutated. The caller must have verified that
// newName is not currently registered.
func RewriteIdentity(desc *Descriptor, newName string) (*Descriptor, error) {
	fresh, err := desc.Clone()
	if err != nil {
		return nil, err
	}

	newUUID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	fresh.SetName(newName)
	fresh.SetUUID(newUUID.String())
	fresh.ClearMACs()

	return fresh, nil
}
