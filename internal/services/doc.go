// Package services implements the search side of trackfetch: encoding a query, calling the search endpoint, and
// mapping the JSON response into [models.Track] values.
//
// # Search Client
//
// [SpotifyService] issues one authenticated GET per call. The bearer token is supplied by the caller and attached by
// an [oauth2.Transport] over a static token source; no token is ever acquired or refreshed here. Outbound calls are
// paced by a [rate.Limiter].
//
// # Outcomes
//
// [SpotifyService.Search] never panics on a status code. Every response is classified into an [Outcome]:
//   - [OutcomeSuccess] : 200, body attached
//   - [OutcomeAuthFailure] : 401, token invalid or expired
//   - [OutcomeClientError] : any other 4xx
//   - [OutcomeServerError] : 5xx and every other status
//   - [OutcomeTransportFailure] : the request never produced a response
//
// Callers choose the policy per kind. [Outcome.Err] maps kinds to errors from the shared package:
//   - [shared.ErrUnauthorized]
//   - [shared.ErrUnexpectedStatus] (via [StatusError])
//   - [shared.ErrAPIRequest]
//
// # Response Mapping
//
// [DecodeSearchResponse] matches fields by name. Unknown fields are ignored; a missing, null, or mistyped field that
// the domain shape needs fails with [shared.ErrShapeMismatch].
package services
