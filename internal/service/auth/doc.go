// Package auth issues and validates operator access tokens and checks
// operator credentials against a bcrypt hash.
package auth
