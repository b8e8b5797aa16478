package session

import (
	perrors "github.com/kochabx/passport/errors"
)

// 会话层对外暴露的错误，调用方只能通过 errors.Is 区分这四类
// ErrInvalidOrExpiredToken 不携带原因，过期、伪造与已撤销对外不可区分
var (
	ErrInvalidCredentials     = perrors.Unauthorized("You are not authenticated")
	ErrInvalidOrExpiredToken  = perrors.Unauthorized("Token is invalid or expired")
	ErrSessionCreationFailure = perrors.InternalServer("Could not create session")
	ErrUnexpected             = perrors.InternalServer("Invalid session received")
)
