// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the internal application services, translating HTTP concerns to
// business operations.
//
// Two kinds of surface live here: the JSON API under /api (subscription
// management, campaign creation, task processing) and the public tracking
// redirect under /track, which responds with a 302 rather than JSON because
// its callers are mail clients following a link.
package api
