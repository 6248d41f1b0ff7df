package testhelpers

// erpFixtureSQL creates a minimal copy of the ERP tables the engine
// reads, with enough seed rows to exercise every fast-path and the
// order-status path. In production these tables belong to the ERP and
// the engine only ever selects from them.
const erpFixtureSQL = `
CREATE TABLE IF NOT EXISTS grade_master (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS condition_master (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS shape_master (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS size_master (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sku_master (
	id BIGINT PRIMARY KEY,
	grade_id BIGINT NOT NULL REFERENCES grade_master(id),
	condition_id BIGINT NOT NULL REFERENCES condition_master(id),
	shape_id BIGINT NOT NULL REFERENCES shape_master(id),
	size_id BIGINT NOT NULL REFERENCES size_master(id),
	is_blackbar INT NOT NULL
);
CREATE TABLE IF NOT EXISTS customers (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	marketing_person TEXT
);
CREATE TABLE IF NOT EXISTS orders (
	id BIGINT PRIMARY KEY,
	order_number TEXT NOT NULL,
	customer_id BIGINT NOT NULL REFERENCES customers(id),
	sku_id BIGINT NOT NULL REFERENCES sku_master(id),
	status TEXT NOT NULL,
	quantity_kg DOUBLE PRECISION NOT NULL,
	material_status TEXT,
	expected_date TIMESTAMPTZ,
	marketing_person TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS despatch (
	id BIGINT PRIMARY KEY,
	despatchno TEXT NOT NULL,
	order_no_id BIGINT NOT NULL REFERENCES orders(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS weightment (
	id BIGINT PRIMARY KEY,
	despatchno TEXT NOT NULL,
	weight DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS despatch_invoice (
	id BIGINT PRIMARY KEY,
	despatchno TEXT NOT NULL,
	invoice_no TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending'
);
CREATE TABLE IF NOT EXISTS production (
	id BIGINT PRIMARY KEY,
	ppno TEXT NOT NULL,
	ppnoreference TEXT,
	customer_id BIGINT NOT NULL REFERENCES customers(id),
	sku_id BIGINT NOT NULL REFERENCES sku_master(id),
	quantity_kg DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL,
	marketing_person TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS stock_register (
	id BIGINT PRIMARY KEY,
	sku_id BIGINT NOT NULL REFERENCES sku_master(id),
	closing_qty DOUBLE PRECISION NOT NULL,
	unit TEXT NOT NULL DEFAULT 'kg',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS stock_rejected (
	id BIGINT PRIMARY KEY,
	sku_id BIGINT NOT NULL REFERENCES sku_master(id),
	closing_qty DOUBLE PRECISION NOT NULL,
	unit TEXT NOT NULL DEFAULT 'kg',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS stock_quarantine (
	id BIGINT PRIMARY KEY,
	sku_id BIGINT NOT NULL REFERENCES sku_master(id),
	closing_qty DOUBLE PRECISION NOT NULL,
	unit TEXT NOT NULL DEFAULT 'kg',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

INSERT INTO grade_master (id, name) VALUES (1, 'EN8D'), (2, 'EN1A')
ON CONFLICT (id) DO NOTHING;
INSERT INTO condition_master (id, name) VALUES (1, 'Bright'), (2, 'Black')
ON CONFLICT (id) DO NOTHING;
INSERT INTO shape_master (id, name) VALUES (1, 'Round'), (2, 'Hex')
ON CONFLICT (id) DO NOTHING;
INSERT INTO size_master (id, name) VALUES (1, '25mm'), (2, '32mm')
ON CONFLICT (id) DO NOTHING;

INSERT INTO sku_master (id, grade_id, condition_id, shape_id, size_id, is_blackbar) VALUES
	(1, 1, 1, 1, 1, 0),
	(2, 2, 2, 2, 2, 1)
ON CONFLICT (id) DO NOTHING;

INSERT INTO customers (id, name, marketing_person) VALUES
	(1, 'Apex Forgings', 'ravi'),
	(2, 'Sharma Auto Components', 'priya')
ON CONFLICT (id) DO NOTHING;

INSERT INTO orders (id, order_number, customer_id, sku_id, status, quantity_kg, material_status, expected_date, marketing_person) VALUES
	(1, 'SO-1001', 1, 1, 'pending', 5000, NULL, NULL, 'ravi'),
	(2, 'SO-1002', 1, 1, 'in_progress', 3000, 'Under Drawing', now() + interval '7 days', 'ravi'),
	(3, 'SO-1003', 2, 2, 'completed', 2000, NULL, NULL, 'priya')
ON CONFLICT (id) DO NOTHING;

INSERT INTO despatch (id, despatchno, order_no_id) VALUES
	(1, 'DSP-501', 2),
	(2, 'DSP-502', 3),
	(3, 'DSP-503', 3)
ON CONFLICT (id) DO NOTHING;

INSERT INTO weightment (id, despatchno, weight) VALUES
	(1, 'DSP-501', 1200),
	(2, 'DSP-502', 1000),
	(3, 'DSP-503', 999.5)
ON CONFLICT (id) DO NOTHING;

INSERT INTO despatch_invoice (id, despatchno, invoice_no, status) VALUES
	(1, 'DSP-501', 'INV-501', 'completed'),
	(2, 'DSP-502', 'INV-502', 'pending')
ON CONFLICT (id) DO NOTHING;

INSERT INTO production (id, ppno, ppnoreference, customer_id, sku_id, quantity_kg, status, marketing_person) VALUES
	(1, 'PP-2602-1595', 'PP-2602-1595-R1', 1, 1, 4000, 'pending', 'ravi'),
	(2, 'PP-2602-1600', NULL, 2, 2, 1500, 'completed', 'priya')
ON CONFLICT (id) DO NOTHING;

INSERT INTO stock_register (id, sku_id, closing_qty) VALUES
	(1, 1, 800), (2, 2, 1500)
ON CONFLICT (id) DO NOTHING;
INSERT INTO stock_rejected (id, sku_id, closing_qty) VALUES
	(1, 1, 50), (2, 2, 75)
ON CONFLICT (id) DO NOTHING;
INSERT INTO stock_quarantine (id, sku_id, closing_qty) VALUES
	(1, 1, 25)
ON CONFLICT (id) DO NOTHING;
`
