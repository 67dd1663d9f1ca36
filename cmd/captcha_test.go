// ABOUTME: Tests for the captcha commands and image decoding
// ABOUTME: Covers data-URI handling and verify exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"testing"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
)

// onePixelPNG is a minimal valid PNG payload for decode tests.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
}

func TestWriteCaptchaImages_BareBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(onePixelPNG)
	captcha := &client.Captcha{BackgroundImage: encoded, SliderImage: encoded}

	bgPath, sliderPath, err := writeCaptchaImages(captcha)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(bgPath)
	defer os.Remove(sliderPath)

	data, err := os.ReadFile(bgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, onePixelPNG) {
		t.Error("decoded background does not match the source bytes")
	}
}

func TestWriteCaptchaImages_DataURI(t *testing.T) {
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(onePixelPNG)
	captcha := &client.Captcha{BackgroundImage: encoded, SliderImage: encoded}

	bgPath, sliderPath, err := writeCaptchaImages(captcha)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(bgPath)
	defer os.Remove(sliderPath)

	data, err := os.ReadFile(sliderPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, onePixelPNG) {
		t.Error("decoded slider does not match the source bytes")
	}
}

func TestWriteCaptchaImages_InvalidBase64(t *testing.T) {
	captcha := &client.Captcha{BackgroundImage: "%%%not-base64%%%"}
	if _, _, err := writeCaptchaImages(captcha); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestCaptchaVerifyCommand_Success(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/captcha/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(okEnvelope(map[string]any{"success": true, "token": "proof-xyz"}))
	})

	var buf bytes.Buffer
	if exitCode := runCaptchaVerify(context.Background(), &buf, "cap-1", "142"); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("proof-xyz")) {
		t.Errorf("expected proof token in output, got %s", buf.String())
	}
}

func TestCaptchaVerifyCommand_WrongPosition(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(okEnvelope(map[string]any{"success": false, "message": "position mismatch"}))
	})

	var buf bytes.Buffer
	if exitCode := runCaptchaVerify(context.Background(), &buf, "cap-1", "10"); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("position mismatch")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestCaptchaVerifyCommand_NonNumericOffset(t *testing.T) {
	var buf bytes.Buffer
	if exitCode := runCaptchaVerify(context.Background(), &buf, "cap-1", "abc"); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}
