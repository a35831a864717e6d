package entities

type User struct {
	ID    uint64  `db:"id"`
	Fio   string  `db:"fio"`
	Email *string `db:"email"`
	Role  string  `db:"role"`
}
