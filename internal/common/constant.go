package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// outbound requests.
const AuthorizationHeaderName = "Authorization"

// SessionStorageKey is the single key under which the serialized session
// record is persisted locally.
const SessionStorageKey = "session"
