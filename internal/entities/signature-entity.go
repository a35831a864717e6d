package entities

import "time"

type ConformitySignature struct {
	ID            uint64    `db:"id"`
	WorkOrderID   uint64    `db:"work_order_id"`
	SignedBy      string    `db:"signed_by"`
	SignatureData string    `db:"signature_data"`
	SignedAt      time.Time `db:"signed_at"`
}
