package store

import "fmt"

// EntityTable describes one classification vocabulary table and the
// junction table linking it to articles.
type EntityTable struct {
	Table     string // e.g. "authors"
	JoinTable string // e.g. "article_authors"
	Column    string // entity column in JoinTable, e.g. "author_id"
}

// EntityTables lists the six classification vocabularies in display order.
var EntityTables = []EntityTable{
	{Table: "authors", JoinTable: "article_authors", Column: "author_id"},
	{Table: "keywords", JoinTable: "article_keywords", Column: "keyword_id"},
	{Table: "subjects", JoinTable: "article_subjects", Column: "subject_id"},
	{Table: "tags", JoinTable: "article_tags", Column: "tag_id"},
	{Table: "universities", JoinTable: "article_universities", Column: "university_id"},
	{Table: "companies", JoinTable: "article_companies", Column: "company_id"},
}

const articlesDDL = `CREATE TABLE IF NOT EXISTS articles (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	abstract          TEXT NOT NULL DEFAULT '',
	conclusion        TEXT DEFAULT '',
	year              INTEGER NOT NULL,
	date              TEXT NOT NULL,
	journal           TEXT DEFAULT '',
	doi               TEXT DEFAULT '',
	language          TEXT NOT NULL,
	page_count        INTEGER DEFAULT 0,
	research_question TEXT DEFAULT '',
	methodology       TEXT DEFAULT '',
	data_used         TEXT DEFAULT '',
	results           TEXT DEFAULT '',
	limitations       TEXT DEFAULT '',
	first_impression  TEXT DEFAULT '',
	notes             TEXT DEFAULT '',
	comment           TEXT DEFAULT '',
	rating            INTEGER NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
	read              BOOLEAN NOT NULL DEFAULT 0,
	favorite          BOOLEAN NOT NULL DEFAULT 0,
	file_base_name    TEXT NOT NULL,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
)`

const countersDDL = `CREATE TABLE IF NOT EXISTS id_counters (
	name       TEXT PRIMARY KEY,
	next_value INTEGER NOT NULL
)`

const settingsDDL = `CREATE TABLE IF NOT EXISTS user_settings (
	id                    INTEGER PRIMARY KEY CHECK (id = 1),
	theme                 TEXT NOT NULL DEFAULT 'light',
	language              TEXT NOT NULL DEFAULT 'en',
	date_format           TEXT NOT NULL DEFAULT 'YYYY-MM-DD',
	preferences           TEXT DEFAULT '{}',
	external_sync_enabled BOOLEAN DEFAULT 0,
	external_sync_path    TEXT DEFAULT '',
	custom_storage_path   TEXT DEFAULT '',
	created_at            DATETIME NOT NULL,
	updated_at            DATETIME NOT NULL
)`

func entityDDL(t EntityTable) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
)`, t.Table)
}

func junctionDDL(t EntityTable) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	%s INTEGER NOT NULL REFERENCES %s(id),
	PRIMARY KEY (article_id, %s)
)`, t.JoinTable, t.Column, t.Table, t.Column)
}

func junctionIndexDDL(t EntityTable) string {
	return fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)`,
		t.JoinTable, t.Column, t.JoinTable, t.Column)
}

// schemaStatements returns the DDL for every table, parents first.
func schemaStatements() []string {
	stmts := []string{articlesDDL, countersDDL, settingsDDL}
	for _, t := range EntityTables {
		stmts = append(stmts, entityDDL(t))
	}
	for _, t := range EntityTables {
		stmts = append(stmts, junctionDDL(t), junctionIndexDDL(t))
	}
	return stmts
}

// columnMigration adds a column that older databases lack.
type columnMigration struct {
	Table      string
	Column     string
	Definition string
}

// additiveMigrations are applied in order on every open; each is skipped
// when the column already exists.
var additiveMigrations = []columnMigration{
	{"articles", "page_count", "INTEGER DEFAULT 0"},
	{"articles", "research_question", "TEXT DEFAULT ''"},
	{"articles", "methodology", "TEXT DEFAULT ''"},
	{"articles", "data_used", "TEXT DEFAULT ''"},
	{"articles", "results", "TEXT DEFAULT ''"},
	{"articles", "limitations", "TEXT DEFAULT ''"},
	{"articles", "first_impression", "TEXT DEFAULT ''"},
	{"articles", "comment", "TEXT DEFAULT ''"},
	{"user_settings", "preferences", "TEXT DEFAULT '{}'"},
	{"user_settings", "external_sync_enabled", "BOOLEAN DEFAULT 0"},
	{"user_settings", "external_sync_path", "TEXT DEFAULT ''"},
	{"user_settings", "custom_storage_path", "TEXT DEFAULT ''"},
}
