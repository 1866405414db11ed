package proto

import "fmt"

func errUnknownOp(op Op) error {
	return fmt.Errorf("proto: unknown op %q", string(op))
}
