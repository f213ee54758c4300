// Package session holds the signed-in state of the CLI.
//
// The durable part is a Record written to the userdata directory on login
// and removed on logout or when the backend rejects the token. A Manager is
// created once per process and handed to whatever needs it; the API
// transport reads the bearer token from it on every request.
package session
