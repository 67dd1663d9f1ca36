// ABOUTME: Captcha commands for generating and verifying slider challenges
// ABOUTME: Decodes the challenge images to temp files for inspection

package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
)

var captchaCmd = &cobra.Command{
	Use:   "captcha",
	Short: "Work with slider captcha challenges",
}

var captchaGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new slider challenge",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runCaptchaGenerate(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var captchaVerifyCmd = &cobra.Command{
	Use:   "verify <captcha-id> <slider-x>",
	Short: "Verify a slider position and print the proof token",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runCaptchaVerify(ctx, os.Stdout, args[0], args[1]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	captchaCmd.AddCommand(captchaGenerateCmd)
	captchaCmd.AddCommand(captchaVerifyCmd)
	rootCmd.AddCommand(captchaCmd)
}

func runCaptchaGenerate(ctx context.Context, w io.Writer) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	captcha, err := app.api.GenerateCaptcha(ctx)
	if err != nil {
		return fail(w, err)
	}

	bgPath, sliderPath, err := writeCaptchaImages(captcha)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, map[string]any{
			"captchaId":       captcha.CaptchaID,
			"sliderY":         captcha.SliderY,
			"backgroundImage": bgPath,
			"sliderImage":     sliderPath,
		})
		return 0
	}

	fmt.Fprintf(w, "Captcha ID: %s\nSlider Y:   %d\nBackground: %s\nSlider:     %s\n",
		captcha.CaptchaID, captcha.SliderY, bgPath, sliderPath)
	return 0
}

func runCaptchaVerify(ctx context.Context, w io.Writer, captchaID, sliderArg string) int {
	sliderX, err := strconv.Atoi(sliderArg)
	if err != nil {
		return fail(w, fmt.Errorf("slider-x must be a number: %w", err))
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	result, err := app.api.VerifyCaptcha(ctx, captchaID, sliderX)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, result)
		if !result.Success {
			return 1
		}
		return 0
	}

	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "verification failed"
		}
		fmt.Fprintf(w, "Captcha rejected: %s\n", msg)
		return 1
	}

	fmt.Fprintf(w, "Captcha verified\nProof token: %s\n", result.Token)
	return 0
}

// writeCaptchaImages decodes the base64 challenge images into the temp
// directory so they can be opened in an image viewer. The data may arrive
// as a bare base64 string or as a data URI.
func writeCaptchaImages(captcha *client.Captcha) (string, string, error) {
	bgPath, err := writeCaptchaImage("captcha-bg-*.png", captcha.BackgroundImage)
	if err != nil {
		return "", "", err
	}
	sliderPath, err := writeCaptchaImage("captcha-slider-*.png", captcha.SliderImage)
	if err != nil {
		return "", "", err
	}
	return bgPath, sliderPath, nil
}

func writeCaptchaImage(pattern, encoded string) (string, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding captcha image: %w", err)
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating captcha image file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing captcha image: %w", err)
	}
	return filepath.Clean(f.Name()), nil
}
