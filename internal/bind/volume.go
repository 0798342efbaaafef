package bind

import (
	"github.com/nkrah/opengate-nils/internal/geometry"
)

// VolumeBaseName is the external name of the abstract volume type.
const VolumeBaseName = "VVolume"

// RegisterVolumeBase installs the abstract volume base type.
func RegisterVolumeBase(r *Registry) error {
	return r.Register(Entry{
		Name:      VolumeBaseName,
		Ownership: ForeignOwned,
	})
}

// RegisterVolumeTypes installs the concrete volume bindings. Placed
// volumes belong to the world tree, so handles are ForeignOwned; the
// shared methods report placement.
func RegisterVolumeTypes(r *Registry) error {
	methods := map[string]Method{
		"name": func(recv any, _ []any) ([]any, error) {
			return []any{recv.(*geometry.Volume).Name}, nil
		},
		"material": func(recv any, _ []any) ([]any, error) {
			return []any{recv.(*geometry.Volume).Material}, nil
		},
		"translation": func(recv any, _ []any) ([]any, error) {
			v := recv.(*geometry.Volume)
			return []any{[]float64{v.Translation.X, v.Translation.Y, v.Translation.Z}}, nil
		},
	}
	for _, name := range []string{"BoxVolume", "SphereVolume", "TubsVolume"} {
		err := r.Register(Entry{
			Name:      name,
			Base:      VolumeBaseName,
			Ownership: ForeignOwned,
			Methods:   methods,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
