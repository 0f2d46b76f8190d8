package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const schema = `CREATE TABLE IF NOT EXISTS transcripts (
	video_id      TEXT NOT NULL,
	language_code TEXT NOT NULL,
	language      TEXT NOT NULL,
	is_generated  INTEGER NOT NULL DEFAULT 0,
	snippets      BLOB NOT NULL,
	fetched_at    TIMESTAMP NOT NULL,
	PRIMARY KEY (video_id, language_code)
)`

// InitDB opens (creating if needed) the cache database at the given path.
func InitDB(path string) (*sql.DB, error) {
	logrus.WithField("path", path).Debug("Initializing transcript cache")

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "create cache directory")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open cache database")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create transcripts table")
	}

	return db, nil
}
