package models

import "time"

// PackageUnit is the unit a compensation figure was entered in.
type PackageUnit string

const (
	// UnitLPA is the canonical comparison unit.
	UnitLPA PackageUnit = "LPA"
	// UnitThousands is one hundredth of UnitLPA.
	UnitThousands PackageUnit = "K"
)

// OfferStatus is the lifecycle state of a single placement offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "Pending"
	OfferAccepted OfferStatus = "Accepted"
	OfferRejected OfferStatus = "Rejected"
)

// Placement is one offer recorded by a student.
type Placement struct {
	ID          string      `db:"id" json:"id"`
	StudentID   string      `db:"student_id" json:"student_id"`
	Company     string      `db:"company" json:"company"`
	Position    string      `db:"position" json:"position"`
	Package     float64     `db:"package" json:"package"`
	PackageUnit PackageUnit `db:"package_unit" json:"package_unit"`
	Status      OfferStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// PlacementRecord is a placement joined with the owning student's listing fields.
type PlacementRecord struct {
	Placement
	StudentName   string `db:"student_name" json:"student_name"`
	StudentEmail  string `db:"student_email" json:"student_email"`
	StudentBranch string `db:"student_branch" json:"student_branch"`
}
