// ABOUTME: Login screen as a bubbletea model wrapping a huh form
// ABOUTME: Handles the optional slider-captcha step and the post-login redirect

package login

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/session"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/tui/styles"
)

// SubmittedMsg is sent after a successful login.
type SubmittedMsg struct {
	Identity *client.Identity
	Redirect string
}

// FailedMsg is sent when login or captcha verification fails. The parent
// recreates the screen so the user gets a fresh form (and a fresh captcha:
// a challenge is single-use).
type FailedMsg struct {
	Reason string
}

// captchaReadyMsg carries a generated challenge with its images written to
// disk for the user to inspect.
type captchaReadyMsg struct {
	captcha    *client.Captcha
	background string
	slider     string
	err        error
}

// Login is the login screen model.
type Login struct {
	sess           *session.Session
	api            *client.Client
	captchaEnabled bool
	redirect       string

	form    *huh.Form
	captcha *client.Captcha
	hint    string
	errMsg  string

	username string
	password string
	sliderX  string
}

// New creates the login screen. redirect is the destination to visit after
// a successful login (empty means home).
func New(sess *session.Session, api *client.Client, captchaEnabled bool, redirect string) *Login {
	m := &Login{
		sess:           sess,
		api:            api,
		captchaEnabled: captchaEnabled,
		redirect:       redirect,
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Username").
			Value(&m.username),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.password),
	}
	if captchaEnabled {
		fields = append(fields, huh.NewInput().
			Title("Slider offset").
			Description("Solve the puzzle images and enter the X offset").
			Value(&m.sliderX))
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase())
	return m
}

// SetError shows a failure reason from a previous attempt.
func (m *Login) SetError(reason string) {
	m.errMsg = reason
}

// Redirect returns the destination this screen will visit after success.
func (m *Login) Redirect() string {
	return m.redirect
}

// Init starts the form and, when required, fetches a captcha challenge.
func (m *Login) Init() tea.Cmd {
	cmds := []tea.Cmd{m.form.Init()}
	if m.captchaEnabled {
		cmds = append(cmds, m.generateCaptcha())
	}
	return tea.Batch(cmds...)
}

// generateCaptcha fetches a fresh challenge and writes the puzzle images
// to the temp directory so a terminal user can open them.
func (m *Login) generateCaptcha() tea.Cmd {
	return func() tea.Msg {
		captcha, err := m.api.GenerateCaptcha(context.Background())
		if err != nil {
			return captchaReadyMsg{err: err}
		}

		bgPath, err := writeImage("datapipeline-captcha-bg-*.png", captcha.BackgroundImage)
		if err != nil {
			return captchaReadyMsg{err: err}
		}
		sliderPath, err := writeImage("datapipeline-captcha-slider-*.png", captcha.SliderImage)
		if err != nil {
			return captchaReadyMsg{err: err}
		}

		return captchaReadyMsg{captcha: captcha, background: bgPath, slider: sliderPath}
	}
}

// writeImage decodes a base64 PNG to a temp file and returns its path.
func writeImage(pattern, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode captcha image: %w", err)
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return filepath.Clean(f.Name()), nil
}

// Update drives the form and submits on completion.
func (m *Login) Update(msg tea.Msg) (*Login, tea.Cmd) {
	if ready, ok := msg.(captchaReadyMsg); ok {
		if ready.err != nil {
			m.errMsg = "Captcha unavailable: " + ready.err.Error()
			return m, nil
		}
		m.captcha = ready.captcha
		m.hint = fmt.Sprintf("Puzzle: %s + %s (slider Y %d)", ready.background, ready.slider, ready.captcha.SliderY)
		return m, nil
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.submit()
	}
	return m, cmd
}

// submit runs captcha verification (when enabled) and then the login call.
func (m *Login) submit() tea.Cmd {
	username := m.username
	password := m.password
	sliderX := m.sliderX
	captcha := m.captcha
	redirect := m.redirect

	return func() tea.Msg {
		ctx := context.Background()

		var proof string
		if m.captchaEnabled {
			if captcha == nil {
				return FailedMsg{Reason: "Captcha challenge not loaded yet, try again"}
			}
			offset, err := strconv.Atoi(sliderX)
			if err != nil {
				return FailedMsg{Reason: "Slider offset must be a number"}
			}
			result, err := m.api.VerifyCaptcha(ctx, captcha.CaptchaID, offset)
			if err != nil {
				return FailedMsg{Reason: err.Error()}
			}
			if !result.Success {
				reason := result.Message
				if reason == "" {
					reason = "Captcha verification failed"
				}
				return FailedMsg{Reason: reason}
			}
			proof = result.Token
		}

		identity, err := m.sess.Login(ctx, username, password, proof)
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				return FailedMsg{Reason: apiErr.Message}
			}
			return FailedMsg{Reason: err.Error()}
		}
		return SubmittedMsg{Identity: identity, Redirect: redirect}
	}
}

// View renders the login screen.
func (m *Login) View() string {
	out := styles.Title.Render("Sign in to DataPipeline") + "\n"
	if m.errMsg != "" {
		out += styles.StatusError.Render(m.errMsg) + "\n"
	}
	if m.hint != "" {
		out += styles.Subtitle.Render(m.hint) + "\n"
	}
	out += m.form.View()
	return out
}
