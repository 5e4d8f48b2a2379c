package inject

import "errors"

// ErrMalformedBody reports a method body whose instruction operands or
// exception-handler boundaries point outside the body itself. Such a body
// cannot be cloned without producing dangling references, so the whole
// injection fails rather than silently dropping the reference.
var ErrMalformedBody = errors.New("inject: malformed method body")
