package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailies/internal/hobbies"
	"github.com/julianstephens/dailies/internal/progress"
	"github.com/julianstephens/dailies/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateWelcome:
		content = m.viewWelcome()
	case StateHobbies:
		content = m.viewHobbies()
	case StateAddHobby:
		content = m.form.View()
	default:
		content = m.viewDay()
	}

	parts := []string{m.viewHeader(), content}
	if m.errMsg != "" {
		parts = append(parts, dangerStyle.Render(m.errMsg))
	}
	parts = append(parts, m.help.View(m))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewHeader() string {
	label := m.Day()
	if m.index == len(m.days)-1 {
		label = "Today"
	} else if t, err := utils.ParseDayKey(m.Day(), m.opts.Location); err == nil {
		label = t.Format("Mon, Jan 2 2006")
	}

	nav := dimStyle.Render(fmt.Sprintf("day %d/%d", m.index+1, len(m.days)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, dayStyle.Render(label), " ", nav)

	p := m.view.Progress
	summary := dimStyle.Render("loading…")
	if m.loaded {
		summary = fmt.Sprintf("%s %d/%d", m.bar.ViewAs(p.Ratio()), p.Completed, p.Total)
		if p.AllComplete() {
			summary += " 🎉"
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, summary, "")
}

func (m Model) viewWelcome() string {
	name := m.opts.DisplayName
	if name == "" {
		name = "there"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Welcome, %s!", name)),
		"",
		"Check things off as you do them each day.",
		"Use ←/→ to look back over the past year.",
		"Exercise groups are done when every exercise is checked;",
		"hobby cards are done once you log some time.",
		"",
		dimStyle.Render("Press space to start."),
	)
	return bannerStyle.Render(body)
}

func (m Model) viewDay() string {
	if m.loadErr != nil {
		return dangerStyle.Render("Couldn't load this day: "+m.loadErr.Error()) + "\n" + dimStyle.Render("Press r to retry.")
	}
	if !m.loaded {
		return ""
	}
	if len(m.view.Rows) == 0 {
		return warningStyle.Render("Your daily list is empty. Run 'dailies list builder' to add items.")
	}

	var b strings.Builder
	for i, ln := range m.lines {
		row := m.view.Rows[ln.row]
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		if ln.exercise >= 0 {
			ex := row.Exercises[ln.exercise]
			b.WriteString(prefix + "    " + checkLine(ex.Checked, ex.Title) + "\n")
			continue
		}

		text := checkLine(row.Checked, row.Item.Title)
		switch {
		case row.Err != nil:
			text += " " + warningStyle.Render("(couldn't load)")
		case row.Kind == progress.KindHobbyGroup:
			if total := row.Hobby.TotalMinutes(); total > 0 {
				text += " " + dimStyle.Render(fmt.Sprintf("%d min", total))
			}
		case row.Kind == progress.KindExerciseGroup && len(row.Exercises) == 0:
			text += " " + dimStyle.Render("no exercises selected")
		}
		b.WriteString(prefix + text + "\n")
	}
	return b.String()
}

func checkLine(checked bool, title string) string {
	if checked {
		return "[x] " + checkedStyle.Render(title)
	}
	return "[ ] " + title
}

func (m Model) viewHobbies() string {
	row, ok := m.hobbyGroup()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(row.Item.Title) + "\n\n")
	if len(row.Hobby.Entries) == 0 {
		b.WriteString(dimStyle.Render("Nothing logged yet. Press a to log time.") + "\n")
		return b.String()
	}
	for i, e := range row.Hobby.Entries {
		prefix := "  "
		if i == m.hobbyCursor {
			prefix = cursorStyle.Render("> ")
		}
		title := e.Hobby
		if h, ok := hobbies.Lookup(e.Hobby); ok {
			title = h.Title
		}
		fmt.Fprintf(&b, "%s%-20s %s\n", prefix, title, formatMinutes(e.Minutes))
	}
	fmt.Fprintf(&b, "\n%s\n", dimStyle.Render("Total "+formatMinutes(row.Hobby.TotalMinutes())))
	return b.String()
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
