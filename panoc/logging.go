package panoc

import (
	"log"
	"os"
)

// panocLogger/pgaLogger print the optional progress lines (spec.md §6
// "Printed progress"), in the style of liblinear/linear.go's package-level
// `logger`. Nothing else is logged.
var (
	panocLogger = log.New(os.Stdout, "[panoc] ", log.LstdFlags)
	pgaLogger   = log.New(os.Stdout, "[pga] ", log.LstdFlags)
)
