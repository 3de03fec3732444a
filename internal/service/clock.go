package service

import "time"

// nowFunc supplies the current instant. Services hold it as a field so tests
// can pin time.
type nowFunc func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
