// Package auth implements the back-office authentication and authorization
// core: credential issuance, session-marker revocation, and the per-request
// verification pipeline.
//
// Credential model:
//   - Tokens are HMAC-signed JWTs carrying the username, role, company scope
//     and a session marker captured at issuance. Signature and expiry are
//     checked statelessly by TokenService; liveness is checked by Verifier
//     against the marker currently stored for the user, one storage read per
//     request, no caching.
//   - Login rotates the marker and logout clears it, so every credential
//     minted earlier turns stale immediately. Concurrent logins race on the
//     marker and the last writer wins: one active session per identity.
//
// Degraded logins:
//   - Accounts can be provisioned without a password. Logging in against
//     such an account is not an error; it returns a LoginResult with no
//     marker and no token, which the transport surfaces as "not activated"
//     without creating a session.
//
// Error surface:
//   - Authentication rejections (missing, malformed, expired, stale) are
//     distinct values internally and collapse into one uniform response at
//     the HTTP boundary. Authorization failures are reported separately.
package auth
