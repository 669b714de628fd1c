// Package catalog is the application-state container of the gallery.
//
// State owns the seed items, the user collection, the album registry and the
// network source registry. It is loaded once at startup from a Store and
// every committed change writes the full snapshot (three JSON blobs) back in
// one transaction.
//
// Asynchronous results (AI captions, AI thumbnails) are merged by id and
// touch a single field; a result for an id that is gone is dropped.
//
// Project derives the visible, ordered item sequence for a sidebar category
// and an optional album. It is pure and cheap enough to run on every key.
package catalog
