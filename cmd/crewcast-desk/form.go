package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/okian/crewcast/internal/adapters/tui"
)

type formCommand struct {
	sharedFlags
}

func (c *formCommand) run(*kingpin.ParseContext) error {
	svc, release, err := c.setup(nocontext)
	if err != nil {
		return err
	}
	defer release()

	p := tea.NewProgram(tui.NewForm(nocontext, svc), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// registerForm registers the interactive form command.
func registerForm(app *kingpin.Application) {
	c := new(formCommand)

	cmd := app.Command("form", "fill in one production and predict its crew").
		Action(c.run)
	c.register(cmd)
}
