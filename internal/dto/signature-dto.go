package dto

import "time"

type CreateSignatureDTO struct {
	SignatureData string `json:"signatureData" validate:"required"`
	SignedBy      string `json:"signedBy" validate:"required,max=255"`
}

type SignatureDTO struct {
	ID            uint64    `json:"id"`
	SignedBy      string    `json:"signedBy"`
	SignatureData string    `json:"signatureData"`
	SignedAt      time.Time `json:"signedAt"`
}
