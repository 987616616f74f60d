// Package auth authenticates API callers by opaque bearer token.
//
// A request carries "Authorization: Bearer <key>". The key is looked up in
// the token store; unknown keys and inactive owners are rejected with 401
// before the wrapped handler runs. The authenticated user is available to
// handlers through UserFromContext.
package auth
