package record

import "fmt"

var errEmptyLine = fmt.Errorf("record: empty log line")

func errUnknownOp(op Op) error {
	return fmt.Errorf("record: unknown op %q", string(op))
}
