// Package models defines the SpaceTraders entities returned by the API.
//
// Types mirror the JSON schema of the v2 API. Enumerations are string types so
// values introduced by the server after this package was written still decode.
package models
