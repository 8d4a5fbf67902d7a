package assert

import "github.com/oomph-ac/kinematic/oerror"

// IsTrue panics with an *oerror.Error built from message and args if ok is false. It is reserved for
// programmer errors in setup code and is never reachable from a motion query or resolution call.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
