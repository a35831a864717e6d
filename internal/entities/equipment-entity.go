package entities

// Equipment is read-only here; the catalog is maintained elsewhere.
type Equipment struct {
	ID           uint64  `db:"id"`
	ClientID     uint64  `db:"client_id"`
	BrandID      *uint64 `db:"brand_id"`
	ModelID      *uint64 `db:"model_id"`
	HousingID    *uint64 `db:"housing_id"`
	SerialNumber *string `db:"serial_number"`
}

type Service struct {
	ID   uint64 `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}
