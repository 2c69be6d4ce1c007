// Package fluidpath provides one path abstraction over the local filesystem
// and object stores, and the copy, move and remove operations built on it.
//
// A [Path] is either a [LocalPath] or an [ObjectPath]. Object stores have no
// real directories: a prefix is a directory while at least one object lives
// under it, and it disappears with its last object. Folder marker objects
// (keys ending in "/") count as directories only.
//
// # Storage Backends
//
// Object stores implement [ObjectStore] and register themselves for a URL
// scheme when their driver package is imported:
//
//   - Google Cloud Storage, gs:// (github.com/gobeaver/fluidpath/driver/gcs)
//   - Amazon S3, s3:// (github.com/gobeaver/fluidpath/driver/s3)
//   - Azure Blob Storage, az:// (github.com/gobeaver/fluidpath/driver/azure)
//   - In-memory, mem:// (github.com/gobeaver/fluidpath/driver/memory)
//
// # Basic Usage
//
//	import _ "github.com/gobeaver/fluidpath/driver/gcs"
//
//	client, err := fluidpath.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Copy a local tree into a bucket
//	err = client.Copy(ctx, "./reports", "gs://bucket/reports")
//
//	// Move a single object; the source is deleted after the copy
//	err = client.Move(ctx, "gs://bucket/a.txt", "gs://bucket/archive/a.txt")
//
//	// Remove a directory, ignoring a missing one
//	err = client.Remove(ctx, "gs://bucket/tmp", false)
//
// Copying a file onto a bucket root such as gs://bucket/ keeps the file's
// name; every other destination is taken as the target path itself.
//
// # Working With Paths
//
// Locations resolve to paths through a [Resolver], or directly:
//
//	p := fluidpath.NewLocalPath("/data")
//	for entry, err := range p.ListRecursive(ctx, "*.csv") {
//	    if err != nil {
//	        return err
//	    }
//	    rel, _ := entry.RelativeTo(p)
//	    fmt.Println(rel)
//	}
//
// Patterns without "/" match the entry name at any depth. Patterns with "/"
// match the path relative to the listed root.
//
// # Transfers
//
// [Transfer] runs copies, moves and removes with the [Option] values it was
// built with: [WithConcurrency] for parallel per-file work, [WithVerify] to
// compare checksums after each copy, and [WithTwoPhaseMove] to delete move
// sources only after every file was copied.
//
// # Error Handling
//
// Failures carry a [PathError] naming the operation and location. Use the
// sentinel errors with errors.Is, or the helpers:
//
//	err := client.Copy(ctx, "gs://bucket/missing", "./out")
//	if fluidpath.IsInvalidArgument(err) {
//	    // source is neither a file nor a directory
//	}
//
// # Configuration
//
// [GetConfig] reads BEAVER_FLUIDPATH_* environment variables. [WithPrefix]
// builds clients from a different prefix.
package fluidpath
