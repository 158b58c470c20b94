package domain

import (
	"math/rand"
	"time"
)

const (
	UserRoleAdmin    = "Admin"
	UserRolePartner  = "Partner"
	UserRoleCustomer = "Customer"

	UserStatusActive  = "Active"
	UserStatusPending = "Pending"

	// RoleFilterAll matches every role in list/search operations.
	RoleFilterAll = "All"
)

// Location is a named map point attached to a user.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// User is a customer, partner or admin of the marketplace. Email is the
// de-duplication key used by order ingestion; uniqueness is expected but not
// enforced.
type User struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	Balance  float64   `json:"balance"`
	Company  string    `json:"company,omitempty"`
	Location *Location `json:"location,omitempty"`
	JoinDate string    `json:"joinDate,omitempty"`
}

// UserPatch is a shallow-merge update; nil fields keep their previous value.
type UserPatch struct {
	Name     *string   `json:"name,omitempty"`
	Email    *string   `json:"email,omitempty"`
	Role     *string   `json:"role,omitempty"`
	Status   *string   `json:"status,omitempty"`
	Balance  *float64  `json:"balance,omitempty"`
	Company  *string   `json:"company,omitempty"`
	Location *Location `json:"location,omitempty"`
}

func (u *User) IsPending() bool {
	return u.Status == UserStatusPending
}

// NewID returns a time-based identifier (milliseconds since epoch). Not
// collision-checked, matching the ingestion contract.
func NewID() int64 {
	return time.Now().UnixMilli()
}

// NewUserID spreads concurrent creations with a small random offset.
func NewUserID() int64 {
	return time.Now().UnixMilli() + rand.Int63n(1000)
}

// Today returns the calendar date used for joinDate and interaction dates.
func Today() string {
	return time.Now().Format("2006-01-02")
}

type UserRepository interface {
	Load() error
	FindAll() []*User
	FindByID(id int64) (*User, error)
	FindByEmail(email string) (*User, error)
	Create(user *User) error
	Update(user *User) error
	Delete(id int64) error
	ReplaceAll(users []*User)
	Snapshot() ([]*User, error)
	PendingCount() int
}

type UserService interface {
	ListUsers() []*User
	SearchUsers(term, role string) []*User
	ListPending() []*User
	CreateUser(user *User) error
	UpdateUser(id int64, patch UserPatch) (*User, error)
	DeleteUser(id int64) error
	ApproveUser(id int64) (*User, error)
	PendingCount() int
}
