// Package auth implements a stateless token-based session core: issuing and
// verifying short-lived access / long-lived refresh credential pairs, and the
// registration, login, refresh, and profile flows built on top of them.
//
// Credentials:
//   - Access and refresh tokens are HS256 JWTs signed with distinct secrets,
//     so possession of one kind never validates as the other. Validity is a
//     pure function of signature and embedded expiry; nothing is stored
//     server side and nothing can be revoked early. Logout is a client-side
//     deletion acknowledged by the server.
//   - Any verification failure (malformed, forged, expired, wrong kind)
//     collapses into the single ErrInvalidCredential at the package boundary.
//
// Orchestration:
//   - Authenticator coordinates the user store and the TokenService. It holds
//     no mutable state between requests; the backing store's unique index on
//     email is the authority for duplicate registrations.
//
// The HTTP layer in http.go is a thin fiber transport: it parses and
// validates payloads, hands them to the Authenticator, and maps the error
// taxonomy onto status codes.
package auth
