// ABOUTME: Slider-captcha endpoints used as the optional pre-login step
// ABOUTME: A challenge is single-use; a failed verify means generate a new one

package client

import "context"

// Captcha is one slider puzzle. Images are base64-encoded PNG.
type Captcha struct {
	CaptchaID       string `json:"captchaId"`
	BackgroundImage string `json:"backgroundImage"`
	SliderImage     string `json:"sliderImage"`
	SliderY         int    `json:"sliderY"`
}

// CaptchaVerifyResult is the outcome of solving a challenge. On success,
// Token is the short-lived proof forwarded into the login call; the client
// never interprets it.
type CaptchaVerifyResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// GenerateCaptcha calls GET /v1/captcha/generate for a fresh challenge.
// The caller owns the challenge's lifetime; no state is held here.
func (c *Client) GenerateCaptcha(ctx context.Context) (*Captcha, error) {
	var captcha Captcha
	if err := c.get(ctx, "/v1/captcha/generate", nil, &captcha); err != nil {
		return nil, err
	}
	return &captcha, nil
}

// VerifyCaptcha calls POST /v1/captcha/verify with the solved slider offset.
// A result with Success == false is not an error; callers must present a
// fresh challenge rather than retry the same id.
func (c *Client) VerifyCaptcha(ctx context.Context, captchaID string, sliderX int) (*CaptchaVerifyResult, error) {
	req := struct {
		CaptchaID string `json:"captchaId"`
		SliderX   int    `json:"sliderX"`
	}{CaptchaID: captchaID, SliderX: sliderX}

	var result CaptchaVerifyResult
	if err := c.post(ctx, "/v1/captcha/verify", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
