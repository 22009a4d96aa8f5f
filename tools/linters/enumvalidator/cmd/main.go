package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"togaftutor.app/tutor/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
