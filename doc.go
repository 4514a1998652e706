// Package icekit reads Iceberg table files from object storage and verifies
// that every file a snapshot references is actually present.
//
// The root package holds the storage abstraction shared by the rest of the
// module. Subpackages build on it:
//
//   - walk: snapshot file-tree walker, existence checkers and the
//     verification relay
//   - manifest: Avro manifest list and manifest decoding
//   - table: table metadata loading and the table commands
//   - output, logger: JSON output and zerolog setup for the CLI
//   - cmd/icekit: the command line tool
//
// # Storage Backends
//
// Drivers register themselves with the root package when imported:
//
//   - Local filesystem (github.com/gobeaver/icekit/driver/local)
//   - Amazon S3 (github.com/gobeaver/icekit/driver/s3)
//   - Google Cloud Storage (github.com/gobeaver/icekit/driver/gcs)
//   - Azure Blob Storage (github.com/gobeaver/icekit/driver/azure)
//   - In-memory (github.com/gobeaver/icekit/driver/memory)
//
// # Router
//
// The [Router] resolves full locations such as "s3://bucket/key" or
// "abfss://container@account.dfs.core.windows.net/key" to the driver for
// their bucket, opening one driver instance per bucket on first use:
//
//	cfg, err := icekit.GetConfig()
//	router := icekit.NewRouter(cfg)
//	data, err := router.ReadAll(ctx, "s3://warehouse/db/t/metadata/v3.metadata.json")
//
// Buckets can also be mounted explicitly, which is how tests use the
// in-memory driver:
//
//	router := icekit.NewRouter(nil)
//	router.Mount("s3://warehouse", memory.New())
//
// # Optional Capabilities
//
// Drivers that can enumerate a bucket in one paginated listing implement
// [CanListKeys]. The Router exposes them through [CanResolveLister]:
//
//	if r, ok := fs.(icekit.CanResolveLister); ok {
//	    if lister, ok := r.Lister(ctx, location); ok {
//	        err := lister.ListKeys(ctx, "db/t/data/", fn)
//	    }
//	}
//
// # Error Handling
//
// Drivers return [PathError] values wrapping the sentinel errors:
//
//	_, err := router.Read(ctx, "s3://warehouse/missing")
//	if icekit.IsNotExist(err) {
//	    // object does not exist
//	}
//
// [ValidationError] and [UserInputError] are expected errors; [IsExpected]
// tells them apart from unexpected failures.
//
// # Configuration
//
// Configuration is read from environment variables with the BEAVER_ICEKIT_
// prefix, see [Config] and [GetConfig].
package icekit
