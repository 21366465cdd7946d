// Package httpapi exposes the circulation commands and queries to the admin
// caller over HTTP. Routing is plain REST on chi; every command endpoint
// requires the authenticated staff id in the X-Staff-ID header and returns
// the command outcome taxonomy mapped onto HTTP status codes. A token-bucket
// rate limit protects the whole surface.
package httpapi
