package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role identifies which side of the marketplace a user acts on.
// The set is closed: values outside it never survive ParseRole, Scan or
// UnmarshalJSON.
type Role string

const (
	RoleProducer Role = "producer"
	RoleRecycler Role = "recycler"
)

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleProducer, RoleRecycler:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("unknown role %q", string(r))
	}
	return string(r), nil
}

// Scan implements the sql.Scanner interface
func (r *Role) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", value)
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
