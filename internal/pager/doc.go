// Package pager exposes paginated Web API collections as demand-driven item streams.
//
// Offset pages ([Page]) and cursor pages ([CursorBasedPage]) both satisfy [Pageable],
// so a single [Pager] state machine serves either shape.
package pager
