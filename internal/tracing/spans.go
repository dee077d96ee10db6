package tracing

// Span names and attribute keys.
const (
	SpanPrefixGateway = "gateway."

	AttrOperation  = "auth.operation"
	AttrUsername   = "auth.username"
	AttrIdentifier = "auth.identifier"
	AttrUserID     = "auth.user_id"
	AttrErrorKind  = "error.kind"
)

// Gateway operation names, used as span name suffixes.
const (
	OpRegister       = "register"
	OpSignIn         = "sign_in"
	OpSignOut        = "sign_out"
	OpCurrentUser    = "current_user"
	OpChangePassword = "change_password"
)
