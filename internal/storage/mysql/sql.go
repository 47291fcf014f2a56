package mysql

// The relational store keeps the whole record as a JSON document and lifts
// only the columns needed for ordering and ad-hoc inspection. WriteAll
// replaces the collection inside one transaction, preserving the
// whole-collection contract of the ports.

// One statement per entry: the driver refuses multi-statement queries on a
// default DSN, and the migration must run against the production DSN.
var schemaStatements = []string{`
CREATE TABLE IF NOT EXISTS hotels (
  id         VARCHAR(64)  NOT NULL,
  doc        JSON         NOT NULL,
  status     VARCHAR(16)  NOT NULL,
  city       VARCHAR(128) NOT NULL DEFAULT '',
  created_by VARCHAR(64)  NOT NULL DEFAULT '',
  created_at TIMESTAMP(6) NOT NULL,
  updated_at TIMESTAMP(6) NOT NULL,
  position   INT          NOT NULL,
  PRIMARY KEY (id),
  KEY idx_hotels_position (position)
)`, `
CREATE TABLE IF NOT EXISTS users (
  id         VARCHAR(64)  NOT NULL,
  doc        JSON         NOT NULL,
  username   VARCHAR(128) NOT NULL,
  position   INT          NOT NULL,
  PRIMARY KEY (id),
  UNIQUE KEY uq_users_username (username),
  KEY idx_users_position (position)
)`}

// position preserves collection order across WriteAll/ReadAll; the query
// engine's "no sortBy" case depends on creation order.
const readHotelsSQL = `SELECT doc FROM hotels ORDER BY position`

const insertHotelSQL = `
INSERT INTO hotels (id, doc, status, city, created_by, created_at, updated_at, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const readUsersSQL = `SELECT doc FROM users ORDER BY position`

const insertUserSQL = `
INSERT INTO users (id, doc, username, position)
VALUES (?, ?, ?, ?)
`
