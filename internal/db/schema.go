package db

import (
	"encoding/base32"
	"fmt"
	"strings"
)

// CurrentVersion is the schema version this build writes.
const CurrentVersion = "0.3.10"

const versionTable = `CREATE TABLE IF NOT EXISTS version (id INTEGER PRIMARY KEY AUTOINCREMENT, version TEXT NOT NULL)`

const clipsTable = `CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type INTEGER NOT NULL DEFAULT 0,
	data BLOB NOT NULL,
	search_text TEXT NOT NULL,
	timestamp INTEGER NOT NULL
)`

const Schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS labels (name TEXT PRIMARY KEY);

INSERT OR IGNORE INTO labels (name) VALUES ('pinned');
INSERT OR IGNORE INTO labels (name) VALUES ('favourite');
`

const labelTable = `CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY,
	FOREIGN KEY (id) REFERENCES clips (id)
		ON UPDATE CASCADE
		ON DELETE CASCADE
)`

// LabelTable maps a label name to its membership table. The mapping is part
// of the on-disk format and must not change.
func LabelTable(name string) string {
	enc := base32.StdEncoding.EncodeToString([]byte(name))
	return "label_" + strings.ReplaceAll(enc, "=", "_")
}

func createClipsTable(name string) string {
	return fmt.Sprintf(clipsTable, name)
}

func createLabelTable(name string) string {
	return fmt.Sprintf(labelTable, LabelTable(name))
}
