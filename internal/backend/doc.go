// Package backend provides an HTTP client for the growth tree backend.
//
// # Overview
//
// The backend is a single endpoint that dispatches on an action query
// parameter. Deployments are often script hosts whose URL already carries a
// path and query, so the client keeps both and only sets action:
//
//   - GET <url>?action=getConfig: stage thresholds, images, milestones
//   - GET <url>?action=getData: the shared counter (totalValue)
//   - GET <url>?action=getStats: hourly access counts and stage history
//
// # Client Usage
//
//	client, err := backend.NewClient(cfg.APIURL, cfg.RequestTimeout(), version)
//	if err != nil {
//		return err
//	}
//	snap, err := client.FetchConfig(ctx)
//	data, err := client.FetchData(ctx)
//
// # Error Handling
//
// Failures fall into three groups:
//
//   - Transport errors and HTTP status >= 400, wrapped with the action name
//   - ServerError, for 200 responses whose body is {"error": "..."}
//   - ErrMalformed, for undecodable bodies, configs without stages or
//     images, and totalValue that is not a non-negative whole number
//
// ErrMalformed is the same sentinel the fault package classifies, so callers
// can hand errors straight to fault.ForPoll.
//
// # Wire Quirks
//
// Milestones arrive keyed by stage index as a string with per-language
// fields named title_<lang> and message_<lang>. pollingInterval is stored in
// seconds by the admin form and in milliseconds by older deployments;
// values below 1000 are read as seconds.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package backend
