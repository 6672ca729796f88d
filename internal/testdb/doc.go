// Package testdb connects integration tests to a real PostgreSQL database.
//
// Tests call Open, which skips when no database URL is configured and
// otherwise migrates the schema with the embedded migrations. WithTx gives
// each test a transaction that is always rolled back, so tests can run in
// parallel against one database:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    properties := postgres.NewPostgresPropertyStore(tx, nil)
//	    ...
//	})
package testdb
