package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserBlocked UserStatus = "blocked"
	UserActive  UserStatus = "active"
	UserPending UserStatus = "pending"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

type UserField string

const (
	UserID        UserField = "id"
	UserFirstname UserField = "firstname"
	UserLastname  UserField = "lastname"
	UserEmail     UserField = "email"
	UserStatusCol UserField = "status"
	UserRole      UserField = "role"
	UserCreatedAt UserField = "created_at"
	UserUpdatedAt UserField = "updated_at"
)

type User struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Firstname string     `db:"firstname" json:"firstname" validate:"required"`
	Lastname  *string    `db:"lastname" json:"lastname"`
	Email     string     `db:"email" json:"email" validate:"required,email"`
	Password  []byte     `db:"password" json:"-" validate:"required"`
	Status    UserStatus `db:"status" json:"status" validate:"oneof=blocked active pending"`
	Role      Role       `db:"role" json:"role" validate:"oneof=admin editor"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`

	Topics []Topic `json:"topics,omitempty"`
}

// Option is a named site setting holding an opaque JSON value.
type Option struct {
	Name      string          `db:"name" json:"name" validate:"required"`
	Value     json.RawMessage `db:"value" json:"value"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
