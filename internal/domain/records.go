package domain

import "time"

// Role distinguishes the privilege level of a User.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Records are stored as JSON objects owned by the client application. Each type models the
// fields the service reads and keeps the rest of the object it was decoded from, so a decode
// and encode round trip returns every field the client wrote.

// User is an account of the transport-management console.
type User struct {
	ID          UserID    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`

	src *payload
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Passenger is a person registered to travel on trips.
type Passenger struct {
	ID             PassengerID `json:"id"`
	FullName       string      `json:"fullName"`
	DocumentNumber string      `json:"documentNumber"`
	Phone          string      `json:"phone,omitempty"`
	Email          string      `json:"email,omitempty"`
	// Notes is free-form text (medical needs, luggage, etc.).
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	src *payload
}

// Conductor drives or staffs a vehicle on a trip.
type Conductor struct {
	ID            ConductorID `json:"id"`
	FullName      string      `json:"fullName"`
	LicenseNumber string      `json:"licenseNumber"`
	Phone         string      `json:"phone,omitempty"`
	IsActive      bool        `json:"isActive"`
	CreatedAt     time.Time   `json:"createdAt"`

	src *payload
}

type TripStatus string

const (
	TripStatusScheduled TripStatus = "SCHEDULED"
	TripStatusBoarding  TripStatus = "BOARDING"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCanceled  TripStatus = "CANCELED"
)

// Trip is a scheduled journey with its manifest.
type Trip struct {
	ID           TripID        `json:"id"`
	Origin       string        `json:"origin"`
	Destination  string        `json:"destination"`
	DepartureAt  time.Time     `json:"departureAt"`
	ArrivalAt    *time.Time    `json:"arrivalAt,omitempty"`
	VehiclePlate string        `json:"vehiclePlate,omitempty"`
	ConductorID  ConductorID   `json:"conductorId,omitempty"`
	PassengerIDs []PassengerID `json:"passengerIds"`
	Status       TripStatus    `json:"status"`

	src *payload
}

// Signature is a passenger's boarding signature for a trip.
type Signature struct {
	ID          SignatureID `json:"id"`
	TripID      TripID      `json:"tripId"`
	PassengerID PassengerID `json:"passengerId"`
	// ImageData is the captured signature, usually a data: URL.
	ImageData string    `json:"imageData"`
	SignedAt  time.Time `json:"signedAt"`

	src *payload
}

// ConductorCredential lets a conductor sign in on the field device.
type ConductorCredential struct {
	ID           CredentialID `json:"id"`
	ConductorID  ConductorID  `json:"conductorId"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"passwordHash"`
	IssuedAt     time.Time    `json:"issuedAt"`
	ExpiresAt    *time.Time   `json:"expiresAt,omitempty"`

	src *payload
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return encodeRecord(plain(u), u.src)
}

func (u *User) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return nil
	}
	type plain User
	var v plain
	src, err := decodeRecord(b, &v)
	if err != nil {
		return err
	}
	*u = User(v)
	u.src = src
	return nil
}

func (p Passenger) MarshalJSON() ([]byte, error) {
	type plain Passenger
	return encodeRecord(plain(p), p.src)
}

func (p *Passenger) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return nil
	}
	type plain Passenger
	var v plain
	src, err := decodeRecord(b, &v)
	if err != nil {
		return err
	}
	*p = Passenger(v)
	p.src = src
	return nil
}

func (c Conductor) MarshalJSON() ([]byte, error) {
	type plain Conductor
	return encodeRecord(plain(c), c.src)
}

func (c *Conductor) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return nil
	}
	type plain Conductor
	var v plain
	src, err := decodeRecord(b, &v)
	if err != nil {
		return err
	}
	*c = Conductor(v)
	c.src = src
	return nil
}

func (t Trip) MarshalJSON() ([]byte, error) {
	type plain Trip
	return encodeRecord(plain(t), t.src)
}

func (t *Trip) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return nil
	}
	type plain Trip
	var v plain
	src, err := decodeRecord(b, &v)
	if err != nil {
		return err
	}
	*t = Trip(v)
	t.src = src
	return nil
}

func (sg Signature) MarshalJSON() ([]byte, error) {
	type plain Signature
	return encodeRecord(plain(sg), sg.src)
}

func (sg *Signature) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return nil
	}
	type plain Signature
	var v plain
	src, err := decodeRecord(b, &v)
	if err != nil {
		return err
	}
	*sg = Signature(v)
	sg.src = src
	return nil
}

func (cc ConductorCredential) MarshalJSON() ([]byte, error) {
	type plain ConductorCredential
	return encodeRecord(plain(cc), cc.src)
}

func (cc *ConductorCredential) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return nil
	}
	type plain ConductorCredential
	var v plain
	src, err := decodeRecord(b, &v)
	if err != nil {
		return err
	}
	*cc = ConductorCredential(v)
	cc.src = src
	return nil
}
