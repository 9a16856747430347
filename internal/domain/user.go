package domain

type User struct {
	ID        string `db:"id" json:"user_id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// UserID satisfies the logger's interest in who acted.
func (u *User) UserID() string { return u.ID }
