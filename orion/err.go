package orion

import "fmt"

// Handle panics if err is not nil. desc and args describe what failed.
func Handle(err error, desc string, args ...any) {
	if err != nil {
		panic(fmt.Errorf(desc+": %w", append(args, err)...))
	}
}
