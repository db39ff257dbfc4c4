// Command namecheck runs the in-memory name availability service used during
// development and tests.
//
// HTTP API
//
//	POST /v1/names/check {"name": "Acme LLC", "state": "DE"}
//	    Reply {"available": bool, "suggestions": [...]}. Suggestions are
//	    offered for taken names only.
//
//	GET /healthz
//	    Reply 200 once the server is listening.
//
// Behaviour
//
//   - Names are compared case-insensitively with whitespace folded.
//   - Only Delaware is supported; other states get 422.
//   - Taken names are seeded with --taken and live only in memory.
package main
