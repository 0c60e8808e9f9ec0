// Package database provides the SQLite connection behind the layout
// catalogue.
//
// This package manages:
//   - Opening the database file (or ":memory:") with WAL mode and a busy timeout
//   - Schema migrations read from an fs.FS, usually the embedded migrations package
//   - Health checks for the API
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Every migration has an .up.sql and a .down.sql file. Down migrations are
// for development only.
package database
