// Package security protects the HTTP API.
//
// The auth subpackage validates API keys sent as bearer tokens or in the
// X-API-Key header. The tls subpackage serves HTTPS and reloads the
// certificate from disk when it changes. Both are configured under the
// server section and are off by default.
package security
