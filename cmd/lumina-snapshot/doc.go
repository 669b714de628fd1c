// Command lumina-snapshot inspects and moves the persisted Lumina catalog.
//
// Usage:
//
//	lumina-snapshot <command> [arguments]
//
// Commands:
//
//	status         Print the stored blobs, the time of the last snapshot
//	               write and catalog counts.
//
//	export [file]  Write the catalog, albums and sources as one JSON
//	               document to file, or stdout when file is omitted or "-".
//
//	import <file>  Replace the stored snapshot with an export. Asks for
//	               confirmation on a terminal; pass -y in scripts.
//
//	vacuum         Compact the database file.
//
// Environment:
//
//	DATABASE_DIR - Path to database directory (default: /database)
//
// Stop the server before importing: it keeps the catalog in memory and
// overwrites the snapshot on its next change.
package main
