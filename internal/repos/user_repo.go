package repos

import (
	"campusmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,name,email,password_hash,created_at FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,name,email,password_hash,created_at FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailTaken reports whether another user already holds the address.
// excludeID is "" at registration and the caller's id on profile update.
func (r *UserRepo) EmailTaken(email, excludeID string) (bool, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?) AND id<>?`, email, excludeID)
	return n > 0, err
}

func (r *UserRepo) Insert(u *domain.User) error {
	_, err := r.DB.Exec(`INSERT INTO users(id,name,email,password_hash) VALUES(?,?,?,?)`,
		u.ID, u.Name, u.Email, u.Hash)
	return err
}

// UpdateProfile changes name/email only; credentials and id are immutable here.
func (r *UserRepo) UpdateProfile(id, name, email string) error {
	_, err := r.DB.Exec(`UPDATE users SET name=?, email=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		name, email, id)
	return err
}
