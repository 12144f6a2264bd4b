package models

// UniqueConstraint names a column set whose values must not repeat across rows,
// with the message reported when they do.
type UniqueConstraint struct {
	Columns map[string]any
	Message string
}

// Entity is implemented by every persisted model.
type Entity interface {
	PrimaryKey() uint64
	UniqueConstraints() []UniqueConstraint
}

// Owned is implemented by models that belong to exactly one user.
type Owned interface {
	OwnerID() uint64
}
