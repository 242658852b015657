package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const ENV_FILE = ".env"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepSelectingBackend step = iota
	stepEnteringSQLitePath
	stepEnteringMongoURI
	stepEnteringMongoName
	stepEnteringPort
	stepEnteringModelsDir
	stepWritingEnv
	stepCheckingHealth
	stepComplete
)

var backends = []string{"sqlite", "mongodb"}

type model struct {
	step         step
	cursor       int
	backend      string
	sqlitePath   string
	mongoURI     string
	mongoName    string
	port         string
	modelsDir    string
	currentInput string
	message      string
	quitting     bool
}

type envWrittenMsg struct{}
type healthOKMsg struct{ backend string }
type healthSkippedMsg struct{}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	return model{
		step:   stepSelectingBackend,
		cursor: 0,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func writeEnv(m model) tea.Cmd {
	return func() tea.Msg {
		var b strings.Builder
		fmt.Fprintf(&b, "BACKEND=%s\n", m.backend)
		if m.backend == "sqlite" {
			fmt.Fprintf(&b, "SQLITE_PATH=%s\n", m.sqlitePath)
		} else {
			fmt.Fprintf(&b, "MONGODB_URI=%s\n", m.mongoURI)
			fmt.Fprintf(&b, "MONGODB_NAME=%s\n", m.mongoName)
		}
		fmt.Fprintf(&b, "PORT=%s\n", m.port)
		fmt.Fprintf(&b, "MODELS_DIR=%s\n", m.modelsDir)

		if err := os.WriteFile(ENV_FILE, []byte(b.String()), 0644); err != nil {
			return errMsg{fmt.Errorf("failed to write %s: %w", ENV_FILE, err)}
		}

		return envWrittenMsg{}
	}
}

func checkHealth(port string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 5 * time.Second}

		resp, err := client.Get(fmt.Sprintf("http://localhost:%s/health", port))
		if err != nil {
			return healthSkippedMsg{}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return healthSkippedMsg{}
		}

		var result map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return healthSkippedMsg{}
		}

		backend, _ := result["backend"].(string)
		return healthOKMsg{backend: backend}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.step != stepEnteringSQLitePath && m.step != stepEnteringMongoURI && m.step != stepEnteringMongoName && m.step != stepEnteringPort && m.step != stepEnteringModelsDir {
				m.quitting = true
				return m, tea.Quit
			}
			m.currentInput += msg.String()

		case "up", "k":
			if m.step == stepSelectingBackend && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.step == stepSelectingBackend && m.cursor < len(backends)-1 {
				m.cursor++
			}

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			if m.step == stepEnteringSQLitePath || m.step == stepEnteringMongoURI || m.step == stepEnteringMongoName || m.step == stepEnteringPort || m.step == stepEnteringModelsDir {
				m.currentInput += msg.String()
			}

		case "enter":
			switch m.step {
			case stepSelectingBackend:
				m.backend = backends[m.cursor]
				if m.backend == "sqlite" {
					m.step = stepEnteringSQLitePath
					m.currentInput = "sql/crop_monitoring.db"
				} else {
					m.step = stepEnteringMongoURI
					m.currentInput = "mongodb://localhost:27017"
				}

			case stepEnteringSQLitePath:
				if m.currentInput != "" {
					m.sqlitePath = m.currentInput
					m.currentInput = "3536"
					m.step = stepEnteringPort
				}

			case stepEnteringMongoURI:
				if m.currentInput != "" {
					m.mongoURI = m.currentInput
					m.currentInput = "crop_monitoring"
					m.step = stepEnteringMongoName
				}

			case stepEnteringMongoName:
				if m.currentInput != "" {
					m.mongoName = m.currentInput
					m.currentInput = "3536"
					m.step = stepEnteringPort
				}

			case stepEnteringPort:
				if m.currentInput != "" {
					m.port = m.currentInput
					m.currentInput = "models"
					m.step = stepEnteringModelsDir
				}

			case stepEnteringModelsDir:
				if m.currentInput != "" {
					m.modelsDir = m.currentInput
					m.currentInput = ""
					m.step = stepWritingEnv
					m.message = "Writing " + ENV_FILE + "..."
					return m, writeEnv(m)
				}

			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case envWrittenMsg:
		m.step = stepCheckingHealth
		m.message = successStyle.Render("✓ Wrote " + ENV_FILE)
		return m, checkHealth(m.port)

	case healthOKMsg:
		m.step = stepComplete
		m.message = successStyle.Render(fmt.Sprintf("✓ Server is up (backend: %s)", msg.backend))

	case healthSkippedMsg:
		m.step = stepComplete
		m.message = successStyle.Render("✓ Config saved") + "\nServer not reachable yet; start it to apply the new settings."

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		m.step = stepComplete
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🌱 Crop Monitor Setup\n\n"))

	switch m.step {
	case stepSelectingBackend:
		s.WriteString(promptStyle.Render("Select a storage backend:\n\n"))

		for i, backend := range backends {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(backend)))
		}

		s.WriteString("\nUse ↑/↓, Enter to select, q to quit\n")

	case stepEnteringSQLitePath:
		s.WriteString(promptStyle.Render("SQLite database path:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringMongoURI:
		s.WriteString(promptStyle.Render("MongoDB connection URI:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringMongoName:
		s.WriteString(promptStyle.Render("MongoDB database name:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPort:
		s.WriteString(promptStyle.Render("Server port:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringModelsDir:
		s.WriteString(promptStyle.Render("Model artifacts directory:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepWritingEnv, stepCheckingHealth:
		s.WriteString(m.message + "\n")

	case stepComplete:
		s.WriteString(m.message + "\n")
		s.WriteString("\nPress Enter to exit\n")
	}

	return s.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
