// Package seed loads the initial hotel catalogue (rooms, services and
// staff accounts) from a TOML file and writes it to the database.
// Entries that already exist are left alone, except staff accounts,
// whose password and role are reset.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// Catalogue mirrors the seed file.
type Catalogue struct {
	Rooms    []Room    `toml:"rooms"`
	Services []Service `toml:"services"`
	Users    []User    `toml:"users"`
}

type Room struct {
	Number int            `toml:"number"`
	Type   model.RoomType `toml:"type"`
}

// Service omits PriceCents to use the default price for its name.
type Service struct {
	Name       model.ServiceName `toml:"name"`
	PriceCents *uint32           `toml:"price_cents"`
}

type User struct {
	Username string     `toml:"username"`
	Password string     `toml:"password"`
	Role     model.Role `toml:"role"`
}

// Load decodes the catalogue at path.
func Load(path string) (*Catalogue, error) {
	var c Catalogue
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("seed: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("seed: unknown keys %v", undecoded)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Parse decodes a catalogue from TOML text.
func Parse(data string) (*Catalogue, error) {
	var c Catalogue
	if _, err := toml.Decode(data, &c); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first malformed entry.
func (c *Catalogue) Validate() error {
	seen := map[int]bool{}
	for i, r := range c.Rooms {
		if r.Number <= 0 || !r.Type.Valid() {
			return fmt.Errorf("seed: rooms[%d]: invalid room %d %q", i, r.Number, r.Type)
		}
		if seen[r.Number] {
			return fmt.Errorf("seed: rooms[%d]: duplicate number %d", i, r.Number)
		}
		seen[r.Number] = true
	}
	for i, s := range c.Services {
		if !s.Name.Valid() {
			return fmt.Errorf("seed: services[%d]: unknown service %q", i, s.Name)
		}
	}
	for i, u := range c.Users {
		if u.Username == "" || u.Password == "" || !u.Role.Valid() {
			return fmt.Errorf("seed: users[%d]: username, password and a valid role are required", i)
		}
	}
	return nil
}

// CatalogueWriter is implemented by *service.CatalogueService.
type CatalogueWriter interface {
	CreateRoom(ctx context.Context, number int, typ model.RoomType) (*model.Room, error)
	CreateService(ctx context.Context, name model.ServiceName, priceCents *uint32) (*model.Service, error)
}

// UserWriter is implemented by *repository.UserRepo.
type UserWriter interface {
	Upsert(ctx context.Context, username, password string, role model.Role, cost int) error
}

// Report counts what Apply changed.
type Report struct {
	Rooms, Services, Users int
	Skipped                int
}

// Apply writes the catalogue.  Rooms and services that already exist
// are counted as skipped.
func Apply(ctx context.Context, c *Catalogue, cat CatalogueWriter, users UserWriter, cost int, log logrus.FieldLogger) (Report, error) {
	var rep Report
	for _, r := range c.Rooms {
		_, err := cat.CreateRoom(ctx, r.Number, r.Type)
		switch {
		case errors.Is(err, repository.ErrConflict):
			rep.Skipped++
			log.WithField("room", r.Number).Debug("seed: room exists")
		case err != nil:
			return rep, fmt.Errorf("seed: room %d: %w", r.Number, err)
		default:
			rep.Rooms++
		}
	}
	for _, s := range c.Services {
		_, err := cat.CreateService(ctx, s.Name, s.PriceCents)
		switch {
		case errors.Is(err, repository.ErrConflict):
			rep.Skipped++
			log.WithField("service", s.Name).Debug("seed: service exists")
		case err != nil:
			return rep, fmt.Errorf("seed: service %s: %w", s.Name, err)
		default:
			rep.Services++
		}
	}
	for _, u := range c.Users {
		if err := users.Upsert(ctx, u.Username, u.Password, u.Role, cost); err != nil {
			return rep, fmt.Errorf("seed: user %s: %w", u.Username, err)
		}
		rep.Users++
	}
	return rep, nil
}
