// Package api exposes the library lending use cases over HTTP.
//
// Routes use the method patterns of net/http.ServeMux. Every response body is the envelope
// {success, status, message, data}, encoded with json-iterator. Requests are authenticated with
// an HS256 JWT taken from the Authorization header ("Bearer <token>") or from the "token" cookie.
// The resolved user id is passed to the command and query handlers as the requester.
package api
