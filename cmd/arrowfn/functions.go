package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/grafana/arrowfn/pkg/engine/function"
)

// functionsCommand prints the documentation of every registered function.
type functionsCommand struct{}

func (cmd *functionsCommand) run(_ *kingpin.ParseContext) error {
	registry := function.NewRegistry(nil, nil)
	if err := function.RegisterBuiltins(registry); err != nil {
		return err
	}

	bold := color.New(color.Bold)
	for _, fn := range registry.Functions() {
		doc := fn.Documentation()

		bold.Println(fn.Name())
		fmt.Printf("\t%s\n", doc.Description)
		fmt.Printf("\tsyntax: %s\n", doc.SyntaxExample)
		if aliases := fn.Aliases(); len(aliases) > 0 {
			fmt.Printf("\taliases: %s\n", strings.Join(aliases, ", "))
		}
		for _, arg := range doc.Arguments {
			fmt.Printf("\t%s: %s\n", arg.Name, arg.Description)
		}
		if doc.SQLExample != "" {
			fmt.Printf("\texample:\n\t\t%s\n", strings.ReplaceAll(doc.SQLExample, "\n", "\n\t\t"))
		}
	}
	return nil
}

func addFunctionsCommand(app *kingpin.Application) {
	cmd := &functionsCommand{}
	app.Command("functions", "Print the documentation of all functions.").Action(cmd.run)
}
