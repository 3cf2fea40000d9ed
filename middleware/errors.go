package middleware

import "errors"

var errTokenRevoked = errors.New("token revoked")
