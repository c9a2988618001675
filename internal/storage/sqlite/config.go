package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:cyclistic.db?_pragma=busy_timeout(5000)"
	//   "../data/cyclistic.db" (interpreted by the driver)
	DSN string
}
