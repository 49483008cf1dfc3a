// Layer demo: a bordered text view with buttons, a floating modal
// dialog, and Tab focus traversal. Ctrl-C or the Quit button exits.
// An optional argument names a TOML theme file for the border colors.
package main

import (
	"fmt"
	"os"

	"github.com/mimame/cursive"
	"github.com/mimame/cursive/backend"
	"github.com/mimame/cursive/theme"
)

func main() {
	th := theme.Default()
	if len(os.Args) > 1 {
		var err error
		if th, err = theme.Load(os.Args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	b, err := backend.NewTcell()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	app := cursive.New(b)

	status := cursive.NewTextView("Tab cycles focus. Enter presses the focused button.")

	dialog := func(a *cursive.App) {
		body := cursive.NewVStack()
		body.Add(cursive.NewTextView("A modal layer absorbs all input.\nEscape-less: press OK to dismiss."))
		body.Add(cursive.NewButton("OK", func(inner *cursive.App) {
			inner.Screen().PopLayer()
		}))
		box := cursive.NewBoxView("Dialog", body)
		box.SetBorderStyle(th.TitleStyle())
		a.Screen().PushLayer(box, true)
	}

	buttons := cursive.NewHStack()
	buttons.Add(cursive.NewButton("Open dialog", dialog))
	buttons.Add(cursive.NewButton("Quit", func(a *cursive.App) { a.Quit() }))

	root := cursive.NewVStack()
	root.AddWeighted(status, 1)
	root.Add(buttons)

	frame := cursive.NewBoxView("Demo", root)
	frame.SetBorderStyle(th.ViewStyle())
	app.Screen().PushLayer(frame, false).FullScreen()

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
