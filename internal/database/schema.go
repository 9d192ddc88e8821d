package database

// Every foreign key spells out its ON DELETE / ON UPDATE policy. Inventory-bearing
// references restrict; only sellers -> sellers_deposits cascades.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	email VARCHAR(50) NOT NULL,
	password VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,

	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS books (
	id BIGSERIAL PRIMARY KEY,
	isbn VARCHAR(13) NOT NULL,

	CONSTRAINT books_isbn_key UNIQUE (isbn),
	CONSTRAINT books_isbn_len CHECK (char_length(isbn) = 13)
);

CREATE TABLE IF NOT EXISTS suppliers (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(50) NOT NULL,
	editor_isbn_prefix VARCHAR(6),
	created_at TIMESTAMPTZ NOT NULL,
	stripe_account_id VARCHAR(255) NOT NULL,

	CONSTRAINT suppliers_name_key UNIQUE (name),
	CONSTRAINT suppliers_editor_isbn_prefix_key UNIQUE (editor_isbn_prefix),
	CONSTRAINT suppliers_editor_isbn_prefix_len CHECK (editor_isbn_prefix IS NULL OR char_length(editor_isbn_prefix) = 6)
);

CREATE TABLE IF NOT EXISTS suppliers_deposits (
	supplier_id BIGINT NOT NULL,
	name VARCHAR(50) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,

	PRIMARY KEY (supplier_id, name),
	CONSTRAINT suppliers_deposits_supplier_fkey FOREIGN KEY (supplier_id)
		REFERENCES suppliers (id) ON DELETE RESTRICT ON UPDATE RESTRICT
);

CREATE TABLE IF NOT EXISTS suppliers_deposits_books (
	supplier_id BIGINT NOT NULL,
	name VARCHAR(50) NOT NULL,
	book_id BIGINT NOT NULL,
	description VARCHAR(255),
	quantity INTEGER NOT NULL,

	PRIMARY KEY (supplier_id, name, book_id),
	CONSTRAINT suppliers_deposits_books_quantity_nonneg CHECK (quantity >= 0),
	CONSTRAINT suppliers_deposits_books_deposit_fkey FOREIGN KEY (supplier_id, name)
		REFERENCES suppliers_deposits (supplier_id, name) ON DELETE RESTRICT ON UPDATE RESTRICT,
	CONSTRAINT suppliers_deposits_books_book_fkey FOREIGN KEY (book_id)
		REFERENCES books (id) ON DELETE RESTRICT ON UPDATE RESTRICT
);

CREATE TABLE IF NOT EXISTS sellers (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(50) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	stripe_account_id VARCHAR(255) NOT NULL,

	CONSTRAINT sellers_name_key UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS sellers_deposits (
	seller_id BIGINT NOT NULL,
	name VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,

	PRIMARY KEY (seller_id, name),
	CONSTRAINT sellers_deposits_name_key UNIQUE (name),
	CONSTRAINT sellers_deposits_seller_fkey FOREIGN KEY (seller_id)
		REFERENCES sellers (id) ON DELETE CASCADE ON UPDATE CASCADE
);

CREATE TABLE IF NOT EXISTS deposits_transactions (
	supplier_id BIGINT NOT NULL,
	seller_id BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	payment_intent_id VARCHAR(255) NOT NULL,
	transfers JSONB NOT NULL DEFAULT '{}'::jsonb,
	status TEXT NOT NULL,

	PRIMARY KEY (supplier_id, seller_id, created_at),
	CONSTRAINT deposits_transactions_status_check
		CHECK (status IN ('pending', 'completed', 'succeeded', 'failed')),
	CONSTRAINT deposits_transactions_transfers_object CHECK (jsonb_typeof(transfers) = 'object'),
	CONSTRAINT deposits_transactions_supplier_fkey FOREIGN KEY (supplier_id)
		REFERENCES suppliers (id) ON DELETE RESTRICT ON UPDATE RESTRICT,
	CONSTRAINT deposits_transactions_seller_fkey FOREIGN KEY (seller_id)
		REFERENCES sellers (id) ON DELETE RESTRICT ON UPDATE RESTRICT
);

CREATE TABLE IF NOT EXISTS deposits_transactions_books (
	supplier_id BIGINT NOT NULL,
	seller_id BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	book_id BIGINT NOT NULL,
	supplier_deposit_id VARCHAR(50) NOT NULL,
	seller_deposit_id VARCHAR(255) NOT NULL,
	quantity INTEGER NOT NULL,
	"paymentStatus" TEXT NOT NULL DEFAULT 'pending',
	status TEXT NOT NULL DEFAULT 'transit',
	due_at TIMESTAMPTZ NOT NULL,

	PRIMARY KEY (supplier_id, seller_id, created_at, book_id, supplier_deposit_id, seller_deposit_id),
	CONSTRAINT deposits_transactions_books_quantity_pos CHECK (quantity > 0),
	CONSTRAINT deposits_transactions_books_payment_status_check
		CHECK ("paymentStatus" IN ('pending', 'paid')),
	CONSTRAINT deposits_transactions_books_status_check
		CHECK (status IN ('transit', 'usable', 'closed_sold', 'closed_returned')),
	CONSTRAINT deposits_transactions_books_transaction_fkey FOREIGN KEY (supplier_id, seller_id, created_at)
		REFERENCES deposits_transactions (supplier_id, seller_id, created_at) ON DELETE RESTRICT ON UPDATE RESTRICT,
	CONSTRAINT deposits_transactions_books_book_fkey FOREIGN KEY (book_id)
		REFERENCES books (id) ON DELETE RESTRICT ON UPDATE RESTRICT
);

CREATE INDEX IF NOT EXISTS deposits_transactions_books_seller_idx
	ON deposits_transactions_books (seller_id, seller_deposit_id, status, created_at);

CREATE INDEX IF NOT EXISTS deposits_transactions_books_unpaid_due_idx
	ON deposits_transactions_books (seller_id, due_at)
	WHERE "paymentStatus" = 'pending';
`
