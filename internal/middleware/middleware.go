// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// bearer-token authentication, request logging, request correlation
// ids, CORS, and panic recovery.
package middleware
