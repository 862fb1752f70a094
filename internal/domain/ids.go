package domain

// IDs are strings in Go. Stored payloads may carry them as JSON numbers (client-generated
// timestamps), so each type also decodes a number into its literal text.

// UserID identifies an application user (operator console account).
type UserID string

// PassengerID identifies a passenger record.
type PassengerID string

// ConductorID identifies a conductor record.
type ConductorID string

// TripID is an internal identifier for a trip record.
type TripID string

// SignatureID identifies a captured passenger signature.
type SignatureID string

// CredentialID identifies a conductor credential.
type CredentialID string

func (id *UserID) UnmarshalJSON(b []byte) error {
	s, err := decodeID(b)
	*id = UserID(s)
	return err
}

func (id *PassengerID) UnmarshalJSON(b []byte) error {
	s, err := decodeID(b)
	*id = PassengerID(s)
	return err
}

func (id *ConductorID) UnmarshalJSON(b []byte) error {
	s, err := decodeID(b)
	*id = ConductorID(s)
	return err
}

func (id *TripID) UnmarshalJSON(b []byte) error {
	s, err := decodeID(b)
	*id = TripID(s)
	return err
}

func (id *SignatureID) UnmarshalJSON(b []byte) error {
	s, err := decodeID(b)
	*id = SignatureID(s)
	return err
}

func (id *CredentialID) UnmarshalJSON(b []byte) error {
	s, err := decodeID(b)
	*id = CredentialID(s)
	return err
}
