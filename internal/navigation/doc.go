// Package navigation implements the remote-control focus state machine of the
// TV shell.
//
// The interface is driven by four directional moves, a confirm action and a
// back action. Next is a pure function: it takes the current FocusState, the
// key and an Env describing what is on screen (visible item count, grid
// columns, overlay flags) and returns the next FocusState plus an Effect for
// the caller to apply (open an item, toggle the player settings panel, close
// the player or an overlay).
//
// The base layout has three regions:
//
//	+---------+---------------------------+
//	|         | HEADER                    |
//	| SIDEBAR +---------------------------+
//	|         | CONTENT (grid or list)    |
//	+---------+---------------------------+
//
// Every index adjustment clamps; the content index is re-clamped against the
// visible count on every key since the projection can change between keys.
package navigation
