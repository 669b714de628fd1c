// Package filesystem wraps the file operations behind resource handles with
// retries for stale NFS file handles.
//
// The upload directory is often a network volume. An ESTALE from open, stat,
// rename or remove usually clears once the client revalidates the handle, so
// those calls are retried with capped exponential backoff. Every other error
// is returned at once.
//
//	f, err := filesystem.Open(path, filesystem.DefaultRetryConfig())
package filesystem
