package onecell

import (
	"time"

	"github.com/google/uuid"
)

// Instance is the immutable singleton record held by a Registry.
// It is created exactly once per registry, from the payload of the
// caller that won the initialization race, and never modified after
// construction. All fields are captured at construction time.
type Instance struct {
	id        string
	data      string
	createdAt time.Time
}

// newInstance builds an Instance from a payload. Only Registry
// construction reaches here, under the cell's lock.
func newInstance(data string) *Instance {
	return &Instance{
		id:        uuid.New().String(),
		data:      data,
		createdAt: time.Now().UTC(),
	}
}

// Data returns the payload captured at construction.
func (i *Instance) Data() string {
	return i.data
}

// ID returns the instance's unique identifier. Two calls that observe
// the same ID observed the same construction; demos and tests use it
// to show identity without comparing pointers.
func (i *Instance) ID() string {
	return i.id
}

// CreatedAt returns when the instance was constructed (UTC).
func (i *Instance) CreatedAt() time.Time {
	return i.createdAt
}
