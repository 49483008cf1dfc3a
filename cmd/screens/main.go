// Screens demo: two named screens with independent layer stacks, a
// periodic callback updating a counter, and F2 switching between them.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mimame/cursive"
	"github.com/mimame/cursive/backend"
)

func main() {
	b := backend.NewANSI()
	app := cursive.New(b)

	ticks := 0
	counter := cursive.NewTextView("ticks: 0")
	home := cursive.NewVStack()
	home.AddWeighted(counter, 1)
	home.Add(cursive.NewTextView("F2 switches to the settings screen. Ctrl-C quits."))
	app.Screen().PushLayer(cursive.NewBoxView("Main", home), false).FullScreen()

	settings := app.AddScreen("settings")
	settings.PushLayer(
		cursive.NewBoxView("Settings", cursive.NewTextView("Nothing to configure yet.\nF2 goes back.")),
		false,
	).FullScreen()

	app.AddPeriodic(time.Second, func(a *cursive.App) {
		ticks++
		counter.SetContent(fmt.Sprintf("ticks: %d", ticks))
	})

	app.Handle(cursive.KeyPress(cursive.KeyF2), func(a *cursive.App) {
		if a.ActiveScreenName() == "main" {
			a.SwitchScreen("settings")
		} else {
			a.SwitchScreen("main")
		}
	})

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
