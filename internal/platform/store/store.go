// Package store provides the repository abstraction every page reads its
// records from. Records are plain structs identified by a string ID; the
// same interface is served by an in-memory fixture store and by a Postgres
// document table.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record with the requested ID does not exist.
var ErrNotFound = errors.New("record not found")

// Record is implemented by every entity kept in a Repository.
type Record interface {
	GetID() string
}

// Repository is the list/find/filter contract shared by all entities.
type Repository[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Find(ctx context.Context, id string) (T, error)
	Filter(ctx context.Context, pred func(T) bool) ([]T, error)
	Save(ctx context.Context, rec T) error
	// Update applies fn to the stored record of id and saves the result as
	// one step: no other Update or Save of id interleaves. An error from fn
	// leaves the record unchanged. fn must not change the record's ID.
	Update(ctx context.Context, id string, fn func(*T) error) (T, error)
	Delete(ctx context.Context, id string) error
}

// Kinds names the document kinds used by the Postgres store and the seed
// command. Keep in sync with the repositories built in internal/app.
const (
	KindAppointment  = "appointment"
	KindClaim        = "claim"
	KindAmbulance    = "ambulance"
	KindAlert        = "alert"
	KindDepartment   = "department"
	KindFacility     = "facility"
	KindStaff        = "staff"
	KindInventory    = "inventory"
	KindPrescription = "prescription"
	KindTelemedicine = "telemedicine"
	KindSettings     = "settings"
)
