package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/script"
	"github.com/mysomang/mytalk/internal/tts"
)

// wizardState tracks which phase the wizard is in.
type wizardState int

const (
	stateMenu wizardState = iota
	stateTyping
	statePicking
	stateVariants
)

// menu item indices
const (
	idxInput = iota
	idxVariants
	idxCategory
	idxModel
	idxTTS
	idxScriptOnly
	idxGenerate
)

type wizardItem struct {
	label   string
	value   string
	options []string
	cursor  int
}

type wizardModel struct {
	items     []wizardItem
	cursor    int
	state     wizardState
	input     string
	variants  map[string]bool
	varCursor int
	err       string
	confirmed bool
	cancelled bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4F6DF5")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Width(14).
			Align(lipgloss.Right).
			MarginRight(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	dimValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4F6DF5")).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	pickedOptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#04B575")).
				Bold(true).
				PaddingLeft(2)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#4F6DF5")).
			Padding(0, 3)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)
)

func newWizardModel(settings *config.Settings) wizardModel {
	variants := map[string]bool{}
	for _, v := range script.VariantNames() {
		variants[v] = true
	}

	return wizardModel{
		items: []wizardItem{
			{label: "Input", value: flagInput},
			{label: "Variants", value: "all"},
			{label: "Category", value: settings.Category, options: config.Categories()},
			{label: "Model", value: settings.Model, options: script.ModelNames()},
			{label: "TTS", value: settings.TTSProvider, options: tts.ProviderNames()},
			{label: "Audio", value: boolLabel(!flagScriptOnly), options: []string{"scripts + audio", "scripts only"}},
			{label: "", value: "Generate"},
		},
		variants: variants,
	}
}

func boolLabel(audio bool) string {
	if audio {
		return "scripts + audio"
	}
	return "scripts only"
}

func (m wizardModel) Init() tea.Cmd { return nil }

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.state {
	case stateTyping:
		return m.updateTyping(key)
	case statePicking:
		return m.updatePicking(key)
	case stateVariants:
		return m.updateVariants(key)
	}
	return m.updateMenu(key)
}

func (m wizardModel) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		switch m.cursor {
		case idxInput:
			m.state = stateTyping
			m.input = m.items[idxInput].value
		case idxVariants:
			m.state = stateVariants
			m.varCursor = 0
		case idxGenerate:
			if strings.TrimSpace(m.items[idxInput].value) == "" {
				m.err = "Input is required"
				return m, nil
			}
			if m.selectedVariantNames() == "" {
				m.err = "Select at least one variant"
				return m, nil
			}
			m.confirmed = true
			return m, tea.Quit
		default:
			m.state = statePicking
			item := &m.items[m.cursor]
			item.cursor = 0
			for i, opt := range item.options {
				if opt == item.value {
					item.cursor = i
				}
			}
		}
	}
	return m, nil
}

func (m wizardModel) updateTyping(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "enter":
		m.items[idxInput].value = strings.TrimSpace(m.input)
		m.err = ""
		m.state = stateMenu
	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	default:
		if key.Type == tea.KeyRunes || key.String() == " " {
			m.input += string(key.Runes)
		}
	}
	return m, nil
}

func (m wizardModel) updatePicking(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := &m.items[m.cursor]
	switch key.String() {
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "up", "k":
		if item.cursor > 0 {
			item.cursor--
		}
	case "down", "j":
		if item.cursor < len(item.options)-1 {
			item.cursor++
		}
	case "enter", " ":
		item.value = item.options[item.cursor]
		m.err = ""
		m.state = stateMenu
	}
	return m, nil
}

func (m wizardModel) updateVariants(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := script.VariantNames()
	switch key.String() {
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "esc", "enter":
		m.items[idxVariants].value = m.selectedVariantNames()
		if m.items[idxVariants].value == "" {
			m.items[idxVariants].value = "none"
		}
		m.state = stateMenu
	case "up", "k":
		if m.varCursor > 0 {
			m.varCursor--
		}
	case "down", "j":
		if m.varCursor < len(names)-1 {
			m.varCursor++
		}
	case " ", "x":
		name := names[m.varCursor]
		m.variants[name] = !m.variants[name]
	}
	return m, nil
}

func (m wizardModel) selectedVariantNames() string {
	var picked []string
	for _, n := range script.VariantNames() {
		if m.variants[n] {
			picked = append(picked, n)
		}
	}
	if len(picked) == len(script.VariantNames()) {
		return "all"
	}
	return strings.Join(picked, ",")
}

func (m wizardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MyTalk · generation setup"))
	b.WriteString("\n")

	switch m.state {
	case stateTyping:
		b.WriteString("  Enter topic text, a file path, or a URL:\n\n")
		b.WriteString("  > " + m.input + "█\n")
		b.WriteString(helpStyle.Render("  enter confirm · esc cancel"))
		return b.String()

	case stateVariants:
		b.WriteString("  Select script variants:\n\n")
		for i, n := range script.VariantNames() {
			mark := "[ ]"
			if m.variants[n] {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s", mark, script.VariantLabel(script.Variant(n)))
			if i == m.varCursor {
				b.WriteString(pickedOptionStyle.Render("> "+line) + "\n")
			} else {
				b.WriteString(optionStyle.Render(line) + "\n")
			}
		}
		b.WriteString(helpStyle.Render("  space toggle · enter done"))
		return b.String()

	case statePicking:
		item := m.items[m.cursor]
		b.WriteString(fmt.Sprintf("  Choose %s:\n\n", strings.ToLower(item.label)))
		for i, opt := range item.options {
			if i == item.cursor {
				b.WriteString(pickedOptionStyle.Render("> "+opt) + "\n")
			} else {
				b.WriteString(optionStyle.Render(opt) + "\n")
			}
		}
		b.WriteString(helpStyle.Render("  enter select · esc back"))
		return b.String()
	}

	for i, item := range m.items {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		if i == idxGenerate {
			btn := buttonStyle.Render("Generate")
			if i != m.cursor {
				btn = dimValueStyle.Render("Generate")
			}
			b.WriteString("\n" + prefix + btn + "\n")
			continue
		}

		value := item.value
		style := valueStyle
		if value == "" {
			value = "(required)"
			style = dimValueStyle
		}
		b.WriteString(prefix + labelStyle.Render(item.label) + style.Render(value) + "\n")
	}

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render("  "+m.err))
	}
	b.WriteString(helpStyle.Render("\n  ↑/↓ move · enter edit · q quit"))
	return b.String()
}

// runInteractiveSetup collects generation options into the flag
// variables and settings. It reports false when the user aborted.
func runInteractiveSetup(settings *config.Settings) (bool, error) {
	final, err := tea.NewProgram(newWizardModel(settings)).Run()
	if err != nil {
		return false, fmt.Errorf("interactive setup: %w", err)
	}

	m, ok := final.(wizardModel)
	if !ok || m.cancelled || !m.confirmed {
		return false, nil
	}

	flagInput = m.items[idxInput].value
	flagVariants = m.items[idxVariants].value
	flagScriptOnly = m.items[idxScriptOnly].value == "scripts only"
	settings.Category = m.items[idxCategory].value
	settings.Model = m.items[idxModel].value
	settings.TTSProvider = m.items[idxTTS].value
	return true, nil
}
