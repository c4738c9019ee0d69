// Package models defines the core data structures for hardware sets,
// users, projects, and checkout events.
package models

import (
	"errors"
	"fmt"
	"time"
)

// HardwareSet represents a named pool of identical hardware units with a
// fixed capacity and a mutable checked-out count.
type HardwareSet struct {
	// Name is the unique identifier of the set, e.g. "HWSET1".
	Name string `json:"name"`
	// Capacity is the total number of units owned, fixed at creation.
	Capacity int64 `json:"capacity"`
	// CheckedOut is the number of units currently loaned out.
	// Always in [0, Capacity].
	CheckedOut int64 `json:"checkedOut"`
	// CreatedAt is when the set row was seeded.
	CreatedAt time.Time `json:"-"`
	// UpdatedAt is when the checked-out count last changed.
	UpdatedAt time.Time `json:"-"`
}

// Available returns the number of units that can still be checked out.
func (h HardwareSet) Available() int64 {
	return h.Capacity - h.CheckedOut
}

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// CreatedAt is when the user registered.
	CreatedAt time.Time
}

// Project is a server-owned group of users working together.
type Project struct {
	// ID is the unique identifier for the project.
	ID string `json:"id"`
	// Name is the display name of the project.
	Name string `json:"name"`
	// Description holds free-form notes about the project.
	Description string `json:"description"`
	// Members lists the usernames belonging to the project.
	Members []string `json:"members"`
	// CreatedAt is when the project was created.
	CreatedAt time.Time `json:"-"`
}

// Event actions recorded in the hardware audit log.
const (
	ActionCheckout = "checkout"
	ActionCheckin  = "checkin"
)

// CheckoutEvent records a single successful checkout or checkin.
type CheckoutEvent struct {
	ID        string
	SetName   string
	Action    string
	Quantity  int64
	Username  string
	CreatedAt time.Time
}

// Sentinel errors shared between repositories, services, and handlers.
var (
	// ErrSetNotFound indicates the named hardware set does not exist.
	ErrSetNotFound = errors.New("hardware set not found")
	// ErrProjectNotFound indicates the project id does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrDuplicateUser indicates the username is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials indicates an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidQuantity indicates a missing, zero, or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// CapacityExceededError is returned when a checkout asks for more units
// than are currently available. Available carries the bound so callers
// can display it.
type CapacityExceededError struct {
	Set       string
	Requested int64
	Available int64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("cannot check out %d from %s: only %d available", e.Requested, e.Set, e.Available)
}

// CheckinExceededError is returned when a checkin asks to return more
// units than are currently checked out. CheckedOut carries the bound.
type CheckinExceededError struct {
	Set        string
	Requested  int64
	CheckedOut int64
}

func (e *CheckinExceededError) Error() string {
	return fmt.Sprintf("cannot check in %d to %s: only %d checked out", e.Requested, e.Set, e.CheckedOut)
}
