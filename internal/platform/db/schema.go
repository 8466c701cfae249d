package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the relational layout if it does not exist yet.
// Every statement is idempotent so concurrent instances can race the
// startup step safely.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id            SERIAL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		tax_id        VARCHAR(20),
		address       TEXT,
		phone         VARCHAR(50),
		email         VARCHAR(255) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		description   TEXT,
		logo_url      TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS partners (
		id            SERIAL PRIMARY KEY,
		first_name    VARCHAR(100) NOT NULL,
		last_name     VARCHAR(100) NOT NULL,
		national_id   VARCHAR(20) UNIQUE NOT NULL,
		phone         VARCHAR(50) NOT NULL,
		email         VARCHAR(255) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		address       TEXT,
		experience    TEXT,
		registered_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             SERIAL PRIMARY KEY,
		company_id     INTEGER REFERENCES companies(id) ON DELETE CASCADE,
		name           VARCHAR(255) NOT NULL,
		category       VARCHAR(100),
		unit_price     NUMERIC(10,2) NOT NULL CHECK (unit_price >= 0),
		commission_pct NUMERIC(5,2) CHECK (commission_pct BETWEEN 0 AND 100),
		stock          INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		description    TEXT,
		variant        VARCHAR(100),
		created_at     TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id               SERIAL PRIMARY KEY,
		partner_id       INTEGER REFERENCES partners(id) ON DELETE CASCADE,
		product_id       INTEGER REFERENCES products(id) ON DELETE CASCADE,
		quantity         INTEGER NOT NULL CHECK (quantity > 0),
		total_price      NUMERIC(10,2) NOT NULL,
		total_commission NUMERIC(10,2) NOT NULL,
		sold_at          TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id            SERIAL PRIMARY KEY,
		partner_id    INTEGER REFERENCES partners(id) ON DELETE CASCADE,
		kind          VARCHAR(50) NOT NULL,
		org_name      VARCHAR(255),
		representative VARCHAR(255),
		tax_id        VARCHAR(20),
		first_name    VARCHAR(100),
		last_name     VARCHAR(100),
		national_id   VARCHAR(20),
		email         VARCHAR(255),
		phone         VARCHAR(50),
		address       TEXT,
		city          VARCHAR(100),
		registered_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS proformas (
		id              SERIAL PRIMARY KEY,
		partner_id      INTEGER REFERENCES partners(id) ON DELETE CASCADE,
		client_id       INTEGER REFERENCES clients(id) ON DELETE CASCADE,
		company_id      INTEGER REFERENCES companies(id) ON DELETE CASCADE,
		product_id      INTEGER REFERENCES products(id) ON DELETE CASCADE,
		quantity        INTEGER NOT NULL CHECK (quantity > 0),
		estimated_price NUMERIC(10,2) NOT NULL,
		notes           TEXT,
		urgency         VARCHAR(50),
		status          VARCHAR(50) NOT NULL,
		number          VARCHAR(100),
		requested_at    TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		quote           JSONB,
		responded_at    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS document_sequences (
		company_id INTEGER NOT NULL,
		doc_type   VARCHAR(10) NOT NULL,
		period     VARCHAR(6) NOT NULL,
		seq        BIGINT NOT NULL,
		PRIMARY KEY (company_id, doc_type, period)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_company ON products(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_partner ON sales(partner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_partner ON clients(partner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_proformas_company ON proformas(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_proformas_partner ON proformas(partner_id)`,
}

// EnsureSchema creates all tables and indexes if absent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("platform/db: ensure schema: %w", err)
		}
	}
	return nil
}
