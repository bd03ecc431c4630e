package repl

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# expand shell

Each line entered in **eval** mode is expanded as one template line and the
result is printed. Assignments made with ` + "`$$ASSIGN{NAME,expr}`" + ` persist
until the configuration is reloaded.

Press **Esc** to switch to **command** mode:

| Command  | Action |
|----------|--------|
| ` + "`help`" + `   | show this page |
| ` + "`vars`" + `   | list variables (synthesized ones dimmed) |
| ` + "`types`" + `  | list instance types, counts and aliases |
| ` + "`reload`" + ` | read the configuration again |
| ` + "`edit`" + `   | edit the resolved tables in ` + "`$EDITOR`" + ` and load the result |
| ` + "`clear`" + `  | clear the screen |
| ` + "`quit`" + `   | exit |

## Keys

- **Tab** / **Shift-Tab** cycle completions after ` + "`$$`" + ` or ` + "`$$(`" + `
- **Space** accepts the selected completion, **Esc** abandons it
- **Up** / **Down** walk the history of both modes
- **Shift-Up** / **Shift-Down** walk the history of the current mode
- **Ctrl-C** on an empty line, or **Ctrl-D**, exits
`

// renderHelp renders the help page for a terminal of the given width. The
// style is one of glamour's standard styles, or "auto" to follow the
// terminal background. The raw markdown is returned if rendering fails.
func renderHelp(style string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}

	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return helpMarkdown
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}

	return out
}
