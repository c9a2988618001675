// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package.
//
// Importing this package makes the following storage kinds available:
//
//   - "sqlite"   (internal/storage/sqlite)
//   - "postgres" (internal/storage/postgres)
//
// Typical usage (in cmd/tripload):
//
//	import _ "github.com/roydale/case-study-01-cyclistic/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.DSN()})
//	if err != nil {
//	    // handle error
//	}
//	defer repo.Close()
package all

import (
	_ "github.com/roydale/case-study-01-cyclistic/internal/storage/postgres"
	_ "github.com/roydale/case-study-01-cyclistic/internal/storage/sqlite"
)
