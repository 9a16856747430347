package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Baseline categories/tags if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  icon TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Tags
CREATE TABLE IF NOT EXISTS tags(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name_nocase ON tags(LOWER(name));

-- Products (one-of-a-kind listings)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  condition TEXT NOT NULL CHECK (condition IN ('new','like_new','good','fair','poor')),
  price NUMERIC NOT NULL CHECK (price >= 0),
  status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','sold','inactive')),
  images_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_seller     ON products(seller_id);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_status     ON products(status);
CREATE INDEX IF NOT EXISTS idx_products_title      ON products(LOWER(title));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

CREATE TABLE IF NOT EXISTS product_tags(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  tag_id     TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
  PRIMARY KEY (product_id, tag_id)
);

-- Cart: one row per (buyer, product)
CREATE TABLE IF NOT EXISTS cart_items(
  buyer_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price_at_add NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  PRIMARY KEY (buyer_id, product_id)
);

-- Wishlist: presence flag only
CREATE TABLE IF NOT EXISTS wishlist_items(
  buyer_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (buyer_id, product_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL REFERENCES users(id),
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','confirmed','completed','cancelled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer      ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting baseline categories and tags")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,icon,color) VALUES
	  ('textbooks','Textbooks','book','#2563eb'),
	  ('electronics','Electronics','cpu','#7c3aed'),
	  ('furniture','Furniture','armchair','#ca8a04'),
	  ('clothing','Clothing','shirt','#16a34a'),
	  ('other','Other','package','#6b7280')`)

	tx.MustExec(`INSERT INTO tags(id,name) VALUES
	  ('tag-freshman','freshman essentials'),
	  ('tag-dorm','dorm life'),
	  ('tag-stem','STEM'),
	  ('tag-cheap','under 20'),
	  ('tag-graduating','graduating senior sale')`)

	return tx.Commit()
}

// SeedDemoData inserts a couple of demo accounts and listings. Idempotent;
// invoked by the seed subcommand, never at server start.
func SeedDemoData(db *sqlx.DB, emailDomain string) error {
	type u struct{ ID, Name, Email, Hash string }
	mk := func(id, name, email, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 10)
		return u{ID: id, Name: name, Email: email, Hash: string(h)}
	}

	users := []u{
		mk("u-demo-amara", "Amara Okafor", "amara@"+emailDomain, "Passw0rd!"),
		mk("u-demo-jordan", "Jordan Lee", "jordan@"+emailDomain, "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,name,email,password_hash)
			VALUES(?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Name, x.Email, x.Hash); err != nil {
			return err
		}
	}

	_, err := tx.Exec(`
		INSERT INTO products(id,seller_id,category_id,title,description,condition,price,images_json)
		SELECT 'p-demo-calc','u-demo-amara','textbooks',
		       'Calculus: Early Transcendentals (8th ed.)',
		       'Some highlighting in chapters 1-4, otherwise clean.',
		       'good', 45.00, '["uploads/products/p-demo-calc.jpg"]'
		WHERE NOT EXISTS (SELECT 1 FROM products WHERE id='p-demo-calc')
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO products(id,seller_id,category_id,title,description,condition,price,images_json)
		SELECT 'p-demo-lamp','u-demo-jordan','furniture',
		       'Desk lamp with USB port',
		       'Works great, moving out in May.',
		       'like_new', 12.50, '[]'
		WHERE NOT EXISTS (SELECT 1 FROM products WHERE id='p-demo-lamp')
	`)
	if err != nil {
		return err
	}

	return tx.Commit()
}
