// Package importer stores locally selected files behind resource handles and
// adds them to the catalog as user items.
//
// Classification uses the declared MIME type, then content sniffing via
// mimetype, then the file extension. Video imports schedule an AI cover on a
// tasks.Tracker; the cover is merged by item id and discarded when the item
// is gone by the time it is ready.
package importer
