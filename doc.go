// Package auth is the authentication and authorization engine for a
// multi-tenant user service: it proves identity from credentials, issues and
// validates signed time-bounded bearer tokens carrying a role snapshot, and
// enforces role-based access decisions ahead of protected operations.
//
// Bearer tokens:
//   - TokenService signs HS256 JWTs embedding user id, username, and the
//     roles held at issuance. Validation distinguishes bad signature, expiry,
//     and malformed payloads so HTTP layers can choose between
//     refresh-and-retry and hard rejection. Tokens are stateless: no session
//     record exists server side, revocation happens through expiry.
//
// Reversible codes:
//   - VerificationCodec produces symmetric, self-verifying codes for
//     out-of-band identity proofs (email verification, password reset links).
//     The code is the claim; there is no table of outstanding codes, and the
//     consuming workflow decides when a code has gone stale.
//
// Access decisions:
//   - Authorize allows when the claim's role snapshot intersects the
//     required set. The jwtware middleware composes validation then
//     authorization so a protected handler cannot run without both.
//
// Every component is stateless with respect to in-process memory: operations
// read their inputs and the static process-wide secrets, nothing else, so all
// of them are safe under arbitrary concurrency without locking.
package auth
