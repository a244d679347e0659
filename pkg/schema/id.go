package schema

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewMutationID generates a new mutation ID in format MUT-{nanoid(10)}.
func NewMutationID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("MUT-%s", id), nil
}

// NewSessionID generates a session ID in format SES-{nanoid(10)} for hosts
// that do not supply their own.
func NewSessionID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SES-%s", id), nil
}
