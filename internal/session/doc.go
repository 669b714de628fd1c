// Package session holds the presentation state of the single TV session.
//
// A Session owns the focus cursor and everything the remote drives around it:
// the view mode, the open item and its caption, the player settings panel and
// rotation, the active overlay and bulk AI progress. Each key press recomputes
// the visible projection from the catalog, runs navigation.Next and applies
// the returned effect.
//
// Captions are fetched on a tasks.Tracker. A late result always lands in the
// catalog; it replaces the visible caption only while the same item is still
// open.
//
// Basic usage:
//
//	s := session.New(state, gateway, tracker)
//	s.HandleKey(navigation.KeyRight)
//	view := s.Snapshot()
package session
