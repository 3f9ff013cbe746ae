package database

import "time"

const (
	ActionPreview = "preview"
	ActionPrint   = "print"
)

// BadgeEvent is one saved or printed badge
type BadgeEvent struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Action    string    `db:"action" json:"action"`
	Path      string    `db:"path" json:"path"`
	Reused    bool      `db:"reused" json:"reused"`   // print used an existing file
	Printed   bool      `db:"printed" json:"printed"` // printer accepted the job
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
