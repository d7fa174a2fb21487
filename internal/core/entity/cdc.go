package entity

import "time"

// CDCFields carries the change-data-capture system columns shared by all
// persisted entities.
type CDCFields struct {
	// DeletedAt is set on soft delete so logical replication can
	// reconstruct DELETE events.
	DeletedAt *time.Time `db:"_deleted_at" json:"-"`

	// TxID orders changes in downstream CDC consumers.
	TxID int64 `db:"_txid" json:"-"`
}

// IsDeleted returns true if entity has been soft-deleted.
func (c *CDCFields) IsDeleted() bool {
	return c.DeletedAt != nil
}

// MarkCDCDeleted sets the deletion timestamp.
func (c *CDCFields) MarkCDCDeleted() {
	now := time.Now().UTC()
	c.DeletedAt = &now
}

// ClearCDCDeleted removes the deletion timestamp.
func (c *CDCFields) ClearCDCDeleted() {
	c.DeletedAt = nil
}
