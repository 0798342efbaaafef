package bind

// ProcessBaseName is the external name of the abstract process type.
const ProcessBaseName = "VProcess"

// RegisterProcessBase installs the abstract process base type.
// Declaring it here is needed because process bindings such as
// StepLimiter derive from it and the registry must know the base
// before any of them registers. The entry is ForeignOwned and has no
// constructor: processes live in the physics list, and a script-side
// wrapper going out of scope must never destroy one.
//
// Call exactly once per registry; a second call fails with
// ErrDuplicateRegistration and module assembly should abort.
func RegisterProcessBase(r *Registry) error {
	return r.Register(Entry{
		Name:      ProcessBaseName,
		Ownership: ForeignOwned,
	})
}

// RegisterProcessTypes installs the concrete process bindings, all
// deriving from VProcess. Handles reach scripts only by wrapping the
// instances the physics list owns; parameter access goes through the
// built-in params/set_param methods.
func RegisterProcessTypes(r *Registry) error {
	for _, name := range []string{
		"Transportation",
		"StepLimiter",
		"IonisationLoss",
		"MultipleScattering",
		"Decay",
		"Absorption",
	} {
		err := r.Register(Entry{
			Name:      name,
			Base:      ProcessBaseName,
			Ownership: ForeignOwned,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
