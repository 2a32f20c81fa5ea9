package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered id for rows and trace ids.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsUUIDV7 reports whether s parses as a version 7 UUID.
func IsUUIDV7(s string) bool {
	id, err := uuid.Parse(s)
	return err == nil && id.Version() == 7
}
