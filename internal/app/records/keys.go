package records

// Primary store keys. These names are persisted state: renaming one orphans existing data.
const (
	KeyUsers                = "users"
	KeyPassengers           = "passengers"
	KeyConductors           = "conductors"
	KeyTrips                = "trips"
	KeySignatures           = "signatures"
	KeyConductorCredentials = "conductorCredentials"
	KeyCurrentUser          = "currentUser"
)

var allKeys = [...]string{
	KeyUsers,
	KeyPassengers,
	KeyConductors,
	KeyTrips,
	KeySignatures,
	KeyConductorCredentials,
	KeyCurrentUser,
}

// Keys returns every primary store key in the order ClearAll removes them.
func Keys() []string {
	out := make([]string, len(allKeys))
	copy(out, allKeys[:])
	return out
}
