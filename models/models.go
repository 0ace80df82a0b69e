// Package models defines the persisted records of the staging store:
// conversion runs and the extra-work queue the secondary glue-code
// generator drains.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run represents one completed bridge conversion.
type Run struct {
	ID string `gorm:"primaryKey;type:varchar(20)"`

	// Input identity
	ModuleName  string `gorm:"type:varchar(255)"`
	InputDigest string `gorm:"type:varchar(64)"` // SHA256 of input module JSON

	// Conversion parameters
	IncludeList     datatypes.JSON `gorm:"type:jsonb"`
	TrivialRequests datatypes.JSON `gorm:"type:jsonb"`
	Renames         datatypes.JSON `gorm:"type:jsonb"`

	// Output
	Output datatypes.JSON `gorm:"type:jsonb"` // converted item list, JSON-encoded
	Diff   string         `gorm:"type:text"`

	// Status tracking
	Status      string    `gorm:"type:varchar(20);default:'complete'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	CompletedAt *time.Time

	// Relationships
	WorkItems []WorkItem `gorm:"foreignKey:RunID"`
}

// WorkItem is one queued extra-work descriptor: a factory function or a
// by-value wrapper the syntax tree alone could not express. The secondary
// generator claims pending items and marks them done.
type WorkItem struct {
	ID    string `gorm:"primaryKey;type:varchar(20)"`
	RunID string `gorm:"type:varchar(20);index"`

	// Item identity
	Seq      int    `gorm:"not null"`                  // declaration order within the run
	Kind     string `gorm:"type:varchar(30);not null"` // make_unique, by_value_wrapper
	TypeName string `gorm:"type:varchar(255)"`         // for factory items
	FnName   string `gorm:"type:varchar(255)"`         // for wrapper items

	// Full conversion descriptor
	Payload datatypes.JSON `gorm:"type:jsonb"`

	// Status tracking
	Status    string    `gorm:"type:varchar(20);default:'pending'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ClaimedAt *time.Time
	DoneAt    *time.Time

	// Relationship
	Run Run `gorm:"foreignKey:RunID"`
}

// TableName customizations for cleaner names
func (Run) TableName() string      { return "runs" }
func (WorkItem) TableName() string { return "work_items" }
