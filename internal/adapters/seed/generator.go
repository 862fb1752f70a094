// Package seed produces the passengers and conductors written to an empty installation.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/clock"
)

// Fixture is the YAML document accepted by NewFromFixture.
//
//	passengers:
//	  - fullName: Ana Ruiz
//	    documentNumber: X-100
//	conductors:
//	  - fullName: Sam Ortiz
//	    licenseNumber: CDL-7
//	    active: true
type Fixture struct {
	Passengers []FixturePassenger `yaml:"passengers"`
	Conductors []FixtureConductor `yaml:"conductors"`
}

type FixturePassenger struct {
	FullName       string `yaml:"fullName"`
	DocumentNumber string `yaml:"documentNumber"`
	Phone          string `yaml:"phone"`
	Email          string `yaml:"email"`
	Notes          string `yaml:"notes"`
}

type FixtureConductor struct {
	FullName      string `yaml:"fullName"`
	LicenseNumber string `yaml:"licenseNumber"`
	Phone         string `yaml:"phone"`
	Active        *bool  `yaml:"active"`
}

var builtinPassengers = []FixturePassenger{
	{FullName: "Maria Fernanda Lopez", DocumentNumber: "MX-4410021", Phone: "+1 510 555 0101"},
	{FullName: "Daniel Okafor", DocumentNumber: "US-88231907", Phone: "+1 510 555 0102"},
	{FullName: "Hannah Schultz", DocumentNumber: "DE-C01X00T47", Email: "hannah.schultz@example.org"},
	{FullName: "Kenji Watanabe", DocumentNumber: "JP-TK5520913", Notes: "Window seat requested"},
	{FullName: "Amara Nwosu", DocumentNumber: "NG-A09271733", Phone: "+1 510 555 0105"},
}

var builtinConductors = []FixtureConductor{
	{FullName: "Roberto Alvarez", LicenseNumber: "CDL-CA-200417", Phone: "+1 510 555 0190"},
	{FullName: "Grace Whitfield", LicenseNumber: "CDL-CA-318855", Phone: "+1 510 555 0191"},
}

// Generator implements the seed port from built-in records or a fixture file.
type Generator struct {
	clock       clock.Clock
	fixturePath string
	conductors  []FixtureConductor
}

func NewGenerator(clk clock.Clock) *Generator {
	return &Generator{clock: clk, conductors: builtinConductors}
}

// NewFromFixture reads path once to validate it and pick up conductors. Passengers are re-read
// from the file on every DefaultPassengers call.
func NewFromFixture(clk clock.Clock, path string) (*Generator, error) {
	fx, err := LoadFixture(path)
	if err != nil {
		return nil, err
	}
	g := &Generator{clock: clk, fixturePath: path, conductors: builtinConductors}
	if len(fx.Conductors) > 0 {
		g.conductors = fx.Conductors
	}
	return g, nil
}

// Open returns a fixture-backed generator when path is set and the built-in one otherwise.
func Open(clk clock.Clock, path string) (*Generator, error) {
	if strings.TrimSpace(path) == "" {
		return NewGenerator(clk), nil
	}
	return NewFromFixture(clk, path)
}

// LoadFixture parses a YAML fixture file. Entries without a name are rejected.
func LoadFixture(path string) (Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read seed fixture: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return Fixture{}, fmt.Errorf("parse seed fixture %s: %w", path, err)
	}
	for i, p := range fx.Passengers {
		if strings.TrimSpace(p.FullName) == "" {
			return Fixture{}, fmt.Errorf("seed fixture %s: passengers[%d]: fullName is required", path, i)
		}
	}
	for i, c := range fx.Conductors {
		if strings.TrimSpace(c.FullName) == "" {
			return Fixture{}, fmt.Errorf("seed fixture %s: conductors[%d]: fullName is required", path, i)
		}
	}
	return fx, nil
}

func (g *Generator) DefaultPassengers(ctx context.Context) ([]domain.Passenger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := builtinPassengers
	if g.fixturePath != "" {
		fx, err := LoadFixture(g.fixturePath)
		if err != nil {
			return nil, err
		}
		src = fx.Passengers
	}

	now := g.clock.Now()
	out := make([]domain.Passenger, 0, len(src))
	for _, p := range src {
		out = append(out, domain.Passenger{
			ID:             domain.PassengerID(uuid.NewString()),
			FullName:       domain.NormalizeHumanName(p.FullName),
			DocumentNumber: strings.TrimSpace(p.DocumentNumber),
			Phone:          strings.TrimSpace(p.Phone),
			Email:          strings.TrimSpace(p.Email),
			Notes:          p.Notes,
			CreatedAt:      now,
		})
	}
	return out, nil
}

func (g *Generator) DefaultConductors() []domain.Conductor {
	now := g.clock.Now()
	out := make([]domain.Conductor, 0, len(g.conductors))
	for _, c := range g.conductors {
		active := true
		if c.Active != nil {
			active = *c.Active
		}
		out = append(out, domain.Conductor{
			ID:            domain.ConductorID(uuid.NewString()),
			FullName:      domain.NormalizeHumanName(c.FullName),
			LicenseNumber: strings.TrimSpace(c.LicenseNumber),
			Phone:         strings.TrimSpace(c.Phone),
			IsActive:      active,
			CreatedAt:     now,
		})
	}
	return out
}
