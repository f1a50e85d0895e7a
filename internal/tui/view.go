package tui

import (
	"fmt"
	"strings"

	"github.com/gitship/gitship/internal/gitx"
	"github.com/gitship/gitship/internal/upload"
)

var fieldLabels = [fieldCount]string{
	"Username",
	"Access token",
	"Project folder",
	"Repository",
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")

	switch m.phase {
	case phaseRunning:
		b.WriteString(titleStyle.Render("Uploading..."))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render(m.spin.View() + " " + m.progress))
		b.WriteString("\n\n")

	case phaseDone:
		if m.result.OK {
			b.WriteString(successStyle.Render("  " + m.result.Message))
		} else {
			b.WriteString(errorStyle.Render("  Upload failed: " + m.result.Message))
		}
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("(Press 'r' to go back, Enter/Esc to quit)"))
		b.WriteString("\n\n")

	default:
		for i, input := range m.inputs {
			label := labelStyle
			if i == m.focus {
				label = focusedLabelStyle
			}
			b.WriteString(label.Render(fmt.Sprintf("%-15s", fieldLabels[i])))
			b.WriteString(input.View())
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Mode: ") + infoStyle.Render(modeLabel(m.mode)))
		b.WriteString(labelStyle.Render("Files: ") + infoStyle.Render(selectionLabel(m.selection)))
		b.WriteString(labelStyle.Render("Visibility: ") + infoStyle.Render(visibilityLabel(m.private)))
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("Enter upload · ^N mode · ^F files · ^P visibility · ^T test auth · ^S save creds · Esc quit"))
		b.WriteString("\n\n")
	}

	for _, line := range m.logLines {
		b.WriteString(logStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func modeLabel(m upload.Mode) string {
	if m == upload.ExistingRepository {
		return "existing repository"
	}
	return "new repository"
}

func selectionLabel(s gitx.SelectionMode) string {
	switch s {
	case gitx.SelectModified:
		return "modified only"
	case gitx.SelectPaths:
		return "selected paths"
	default:
		return "all files"
	}
}

func visibilityLabel(private bool) string {
	if private {
		return "private"
	}
	return "public"
}
