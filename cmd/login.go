// ABOUTME: Login command with interactive prompts and optional captcha step
// ABOUTME: Persists the session so subsequent commands run authenticated

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/validate"
)

var (
	loginUsername     string
	loginPassword     string
	loginCaptchaToken string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the DataPipeline API",
	Long: `Authenticate and persist the session locally.

Missing credentials are prompted for interactively. When the captcha step is
enabled (DATAPIPELINE_CAPTCHA=true), the puzzle images are written to the
temp directory and the slider offset is prompted for; a pre-verified proof
can be passed with --captcha-token instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runLogin(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginCaptchaToken, "captcha-token", "", "Pre-verified captcha proof token")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context, w io.Writer) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	username := loginUsername
	password := loginPassword
	if username == "" || password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Username").Value(&username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		)).WithTheme(huh.ThemeBase())
		if err := form.Run(); err != nil {
			return fail(w, err)
		}
	}

	if err := validate.Username(username); err != nil {
		return fail(w, err)
	}
	if err := validate.Required("password", password); err != nil {
		return fail(w, err)
	}

	captchaToken := loginCaptchaToken
	if app.cfg.CaptchaEnabled && captchaToken == "" {
		captchaToken, err = solveCaptcha(ctx, w, app)
		if err != nil {
			return fail(w, err)
		}
	}

	identity, err := app.sess.Login(ctx, username, password, captchaToken)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, identity)
	} else {
		fmt.Fprintf(w, "Logged in as %s [%s]\n", identity.Username, identity.Role)
	}
	return 0
}

// solveCaptcha runs the interactive challenge loop: generate, prompt for
// the slider offset, verify. A failed verification presents a fresh
// challenge instead of retrying the consumed one.
func solveCaptcha(ctx context.Context, w io.Writer, app *appContext) (string, error) {
	for {
		captcha, err := app.api.GenerateCaptcha(ctx)
		if err != nil {
			return "", err
		}

		bgPath, sliderPath, err := writeCaptchaImages(captcha)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(w, "Captcha puzzle written to:\n  %s\n  %s\nSlider Y position: %d\n", bgPath, sliderPath, captcha.SliderY)

		var offset string
		prompt := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Slider X offset").Value(&offset),
		)).WithTheme(huh.ThemeBase())
		if err := prompt.Run(); err != nil {
			return "", err
		}

		sliderX, err := strconv.Atoi(offset)
		if err != nil {
			fmt.Fprintln(w, "Offset must be a number, generating a new challenge")
			continue
		}

		result, err := app.api.VerifyCaptcha(ctx, captcha.CaptchaID, sliderX)
		if err != nil {
			return "", err
		}
		if result.Success {
			return result.Token, nil
		}

		msg := result.Message
		if msg == "" {
			msg = "verification failed"
		}
		fmt.Fprintf(w, "Captcha %s, generating a new challenge\n", msg)
	}
}
