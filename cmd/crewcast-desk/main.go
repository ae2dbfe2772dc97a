// Command crewcast-desk is the terminal front-end of the staffing predictor.
//
//	crewcast-desk form  --model PATH
//	crewcast-desk batch --model PATH --in FILE [--out FILE]
package main

import (
	"context"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"
)

// program version
var version = "v1.0.0"

// empty context
var nocontext = context.Background()

func main() {
	app := kingpin.New("crewcast-desk", "staffing prediction in the terminal")
	registerForm(app)
	registerBatch(app)

	app.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}
