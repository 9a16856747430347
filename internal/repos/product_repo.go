package repos

import (
	"encoding/json"

	"campusmarket/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductRow is a catalog read joined with its category and seller.
type ProductRow struct {
	domain.Product
	CategoryName string   `db:"category_name" json:"category_name"`
	SellerName   string   `db:"seller_name" json:"seller_name"`
	SellerEmail  string   `db:"seller_email" json:"seller_email"`
	Tags         []string `db:"-" json:"tags"`
	Images       []string `db:"-" json:"images"`
}

// ProductFilter narrows the public listing; zero values mean "any".
type ProductFilter struct {
	CategoryID string
	Condition  string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
}

const productCols = `
  p.id, p.seller_id, p.category_id, p.title, p.description, p.condition,
  p.price, p.status, p.images_json, p.created_at, COALESCE(p.updated_at,'') AS updated_at,
  c.name AS category_name, u.name AS seller_name, u.email AS seller_email`

func (r *ProductRepo) ListActive(f ProductFilter, limit, offset int) ([]ProductRow, error) {
	where := `p.status = 'active'`
	args := []any{}
	if f.CategoryID != "" {
		where += ` AND p.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Condition != "" {
		where += ` AND p.condition = ?`
		args = append(args, f.Condition)
	}
	if f.MinPrice != nil {
		where += ` AND p.price >= ?`
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where += ` AND p.price <= ?`
		args = append(args, *f.MaxPrice)
	}
	if f.Search != "" {
		where += ` AND (LOWER(p.title) LIKE ? OR LOWER(p.description) LIKE ?)`
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}

	q := `
	  SELECT ` + productCols + `
	  FROM products p
	  JOIN categories c ON c.id = p.category_id
	  JOIN users u ON u.id = p.seller_id
	  WHERE ` + where + `
	  ORDER BY p.created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows := []ProductRow{}
	if err := r.db.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	return rows, r.attachTags(rows)
}

func (r *ProductRepo) Get(id string) (*ProductRow, error) {
	var p ProductRow
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products p
	  JOIN categories c ON c.id = p.category_id
	  JOIN users u ON u.id = p.seller_id
	  WHERE p.id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	rows := []ProductRow{p}
	if err := r.attachTags(rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *ProductRepo) ListBySeller(sellerID string) ([]ProductRow, error) {
	rows := []ProductRow{}
	err := r.db.Select(&rows, `
	  SELECT `+productCols+`
	  FROM products p
	  JOIN categories c ON c.id = p.category_id
	  JOIN users u ON u.id = p.seller_id
	  WHERE p.seller_id = ? AND p.status <> 'inactive'
	  ORDER BY p.created_at DESC
	`, sellerID)
	if err != nil {
		return nil, err
	}
	return rows, r.attachTags(rows)
}

// Create inserts the listing and its tag links in one transaction.
func (r *ProductRepo) Create(p *domain.Product, tagIDs []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO products(id,seller_id,category_id,title,description,condition,price,status,images_json)
		VALUES(?,?,?,?,?,?,?,?,?)
	`, p.ID, p.SellerID, p.CategoryID, p.Title, p.Description, p.Condition, p.Price, p.Status, p.ImagesJSON); err != nil {
		return err
	}
	for _, t := range tagIDs {
		if _, err := tx.Exec(`INSERT INTO product_tags(product_id,tag_id) VALUES(?,?)`, p.ID, t); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpdateOwned rewrites the mutable columns, but only while the caller still
// owns an active listing; sold/inactive rows and foreign rows are untouched.
// Returns false when nothing matched.
func (r *ProductRepo) UpdateOwned(id, sellerID string, p *domain.Product) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE products
		SET title=?, description=?, condition=?, price=?, category_id=?, images_json=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=? AND seller_id=? AND status='active'
	`, p.Title, p.Description, p.Condition, p.Price, p.CategoryID, p.ImagesJSON, id, sellerID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// Withdraw transitions active -> inactive for the owning seller.
func (r *ProductRepo) Withdraw(id, sellerID string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE products SET status='inactive', updated_at=CURRENT_TIMESTAMP
		WHERE id=? AND seller_id=? AND status='active'
	`, id, sellerID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// parseImages decodes an images_json column; empty or bad JSON yields [].
func parseImages(raw string) []string {
	out := []string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &out)
	}
	return out
}

type tagLink struct {
	ProductID string `db:"product_id"`
	Name      string `db:"name"`
}

// attachTags fills Tags and Images on each row after the main select; the
// junction is queried once for the whole page.
func (r *ProductRepo) attachTags(rows []ProductRow) error {
	for i := range rows {
		rows[i].Tags = []string{}
		rows[i].Images = parseImages(rows[i].ImagesJSON)
	}
	if len(rows) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	q, args, err := sqlx.In(`
	  SELECT pt.product_id, t.name
	  FROM product_tags pt JOIN tags t ON t.id = pt.tag_id
	  WHERE pt.product_id IN (?)
	  ORDER BY t.name
	`, ids)
	if err != nil {
		return err
	}
	var links []tagLink
	if err := r.db.Select(&links, q, args...); err != nil {
		return err
	}
	byID := map[string]*ProductRow{}
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	for _, l := range links {
		if row := byID[l.ProductID]; row != nil {
			row.Tags = append(row.Tags, l.Name)
		}
	}
	return nil
}
