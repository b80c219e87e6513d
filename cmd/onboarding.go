package cmd

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

// Settings is what first-run setup stores in the config directory.
type Settings struct {
	Completed bool   `json:"completed"`
	APIURL    string `json:"api_url,omitempty"`
}

func settingsPath(configDir string) string {
	return filepath.Join(configDir, "settings.json")
}

func loadSettings(configDir string) (Settings, error) {
	data, err := os.ReadFile(settingsPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, errors.Wrap(err, "read settings")
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, errors.Wrap(err, "parse settings")
	}
	return settings, nil
}

func saveSettings(configDir string, settings Settings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}
	return errors.Wrap(os.WriteFile(settingsPath(configDir), data, 0644), "write settings")
}

func shouldRunOnboarding(settings Settings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// validateAPIURL accepts absolute http(s) URLs with a host.
func validateAPIURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", errors.New("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Errorf("unsupported scheme %q, use http or https", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("URL has no host")
	}
	return raw, nil
}

type onboardingStep int

const (
	stepURL onboardingStep = iota
	stepDone
)

type onboardingModel struct {
	step     onboardingStep
	urlInput textinput.Model
	settings Settings
	status   string
	err      string
	width    int
	height   int
}

var (
	obColorMuted  = lipgloss.Color("#7E8C80")
	obColorText   = lipgloss.Color("#D6E0D3")
	obColorAccent = lipgloss.Color("#8FA082")
	obColorDanger = lipgloss.Color("#f38ba8")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obWarnStyle = lipgloss.NewStyle().
			Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel(current string) onboardingModel {
	in := textinput.New()
	in.Placeholder = DefaultAPIURL
	in.CharLimit = 300
	in.Prompt = "url> "
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(obColorText).Background(obColorAccent)
	in.SetValue(strings.TrimSpace(current))
	in.Focus()

	return onboardingModel{
		step:     stepURL,
		urlInput: in,
		settings: Settings{Completed: true},
	}
}

func (m onboardingModel) Init() tea.Cmd { return textinput.Blink }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.step != stepURL {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			value := m.urlInput.Value()
			if strings.TrimSpace(value) == "" {
				value = DefaultAPIURL
			}
			u, err := validateAPIURL(value)
			if err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.settings.APIURL = u
			m.status = "Using " + u
			m.step = stepDone
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.settings.APIURL = ""
			m.status = "Setup skipped. Using " + DefaultAPIURL
			m.step = stepDone
			return m, tea.Quit
		}
		m.err = ""
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	footer := m.renderFooter(width)

	contentHeight := max(height-4, 8)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("carsync") + " " + obMutedStyle.Render("› Setup")
	right := obMutedStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return obHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderFooter(width int) string {
	if m.step == stepURL {
		return obFooterStyle.Width(width).Render("enter save  esc skip")
	}
	return obFooterStyle.Width(width).Render("Setup complete")
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepURL:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.urlInput.View())
		lines := []string{
			obLabelStyle.Render("Where is the cars service?"),
			"",
			obMutedStyle.Render("carsync reads and writes /cars on this base URL."),
			obMutedStyle.Render("Run `carsync serve` for a local SQLite-backed service."),
			"",
			obLabelStyle.Render("API base URL"),
			input,
		}
		if m.err != "" {
			lines = append(lines, obWarnStyle.Render(m.err))
		}
		lines = append(lines, "", obMutedStyle.Render("Press Enter to save, Esc to use the default."))
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left,
			obLabelStyle.Render("Setup Complete"),
			"",
			obMutedStyle.Render(m.status),
			obMutedStyle.Render("You can change this later in ~/.carsync/settings.json"),
		)
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string, current string) (Settings, error) {
	prog := tea.NewProgram(newOnboardingModel(current), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return Settings{}, errors.Wrap(err, "onboarding tui failed")
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return Settings{}, errors.New("unexpected onboarding model type")
	}
	if err := saveSettings(configDir, m.settings); err != nil {
		return Settings{}, err
	}
	return m.settings, nil
}
