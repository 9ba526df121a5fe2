package types

// RiskID is the primary key of a risk in the catalog
type RiskID string

func (id RiskID) String() string { return string(id) }

// PracticeID is the primary key of a best practice
type PracticeID string

func (id PracticeID) String() string { return string(id) }

// ToolID is the primary key of a monitoring tool
type ToolID string

func (id ToolID) String() string { return string(id) }

// UserID identifies the owner of a preference set. Sessions without authentication use a
// generated identifier.
type UserID string

func (id UserID) String() string { return string(id) }
