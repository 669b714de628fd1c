// Package resources manages explicit handles for the bytes behind imported
// media.
//
// Every imported file and every generated thumbnail is stored under the
// registry directory and addressed by a handle id. Handles are acquired when
// an item is created and released when the item leaves the collection; a
// startup Sweep removes any file that no persisted item references.
//
// Handle URLs have the form /api/blob/<id> and are served by the HTTP layer
// through Open.
package resources
