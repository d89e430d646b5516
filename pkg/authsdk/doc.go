// Package authsdk is the typed HTTP client for the mobile-auth
// service, plus the wire types and error values the server and its
// clients share.
package authsdk
