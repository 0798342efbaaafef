package bind

// SourceBaseName is the external name of the abstract source type.
const SourceBaseName = "VSource"

// RegisterSourceBase installs the abstract source base type.
func RegisterSourceBase(r *Registry) error {
	return r.Register(Entry{
		Name:      SourceBaseName,
		Ownership: ForeignOwned,
	})
}

// RegisterSourceTypes installs the concrete source bindings. Sources
// are assembled by the simulation facade (which owns them), so the
// bindings are ForeignOwned observation handles like processes.
func RegisterSourceTypes(r *Registry) error {
	return r.Register(Entry{
		Name:      "GenericSource",
		Base:      SourceBaseName,
		Ownership: ForeignOwned,
	})
}
