// Package stability adapts the Stability AI text-to-image API. Remote
// failures never surface as Go errors: Generate always returns a Result.
package stability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.stability.ai/v1"
	DefaultTimeout = 120 * time.Second

	enginePath = "/generation/stable-diffusion-xl-1024-v1-0/text-to-image"
)

var stylePhrases = map[string]string{
	"realistic":    "photorealistic, highly detailed, professional photography",
	"oil_painting": "oil painting, impressionist, brushstrokes",
	"digital_art":  "digital art, high resolution, concept art",
	"watercolor":   "watercolor painting, soft colors, artistic",
	"anime":        "anime style, vibrant colors, manga illustration",
	"cartoon":      "cartoon style, fun, colorful, playful",
	"sketch":       "pencil sketch, line art, detailed drawing",
	"cyberpunk":    "cyberpunk, neon lights, futuristic, sci-fi",
	"fantasy":      "fantasy art, magical, mystical, epic",
}

// Styles lists the style keys with a dedicated prompt phrase.
func Styles() []string {
	return []string{"realistic", "oil_painting", "digital_art", "watercolor", "anime", "cartoon", "sketch", "cyberpunk", "fantasy"}
}

// SDXL only accepts a fixed set of sizes.
var sizes = map[int][2]int{
	512:  {832, 1216},
	768:  {1152, 896},
	1024: {1024, 1024},
}

// Dimensions maps a requested width to an accepted (width, height).
func Dimensions(width int) (int, int) {
	if wh, ok := sizes[width]; ok {
		return wh[0], wh[1]
	}
	return 1024, 1024
}

func EnhancePrompt(prompt, style string) string {
	phrase, ok := stylePhrases[style]
	if !ok {
		phrase = "detailed"
	}
	return prompt + ", " + phrase
}

type Result struct {
	Success     bool   `json:"success"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	Style       string `json:"style,omitempty"`
	Error       string `json:"error,omitempty"`
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logrus.FieldLogger
}

func New(cfg Config, log logrus.FieldLogger) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type textPrompt struct {
	Text   string `json:"text"`
	Weight int    `json:"weight"`
}

type generateRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    int          `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type generateResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

func fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// Generate renders prompt in style. width picks one of the accepted SDXL
// sizes; anything unrecognised becomes a square.
func (c *Client) Generate(ctx context.Context, prompt, style string, width int) Result {
	if c.apiKey == "" {
		return fail("API key not configured. Set STABILITY_API_KEY.")
	}

	enhanced := EnhancePrompt(prompt, style)
	w, h := Dimensions(width)
	log := c.log.WithFields(logrus.Fields{"style": style, "width": w, "height": h})
	log.Debug("generating image")

	body, err := json.Marshal(generateRequest{
		TextPrompts: []textPrompt{{Text: enhanced, Weight: 1}},
		CfgScale:    7,
		Height:      h,
		Width:       w,
		Samples:     1,
		Steps:       30,
	})
	if err != nil {
		return fail(fmt.Sprintf("Error generating image: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+enginePath, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Sprintf("Error generating image: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			log.WithError(err).Error("image generation timed out")
			return fail("Request timed out. Image generation took too long. Please try again.")
		}
		log.WithError(err).Error("image generation network error")
		return fail(fmt.Sprintf("Network error: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return fail("Request timed out. Image generation took too long. Please try again.")
		}
		return fail(fmt.Sprintf("Network error: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := apiErrorMessage(resp.StatusCode, raw)
		log.WithField("status", resp.StatusCode).Error(msg)
		return fail(msg)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fail(fmt.Sprintf("Error generating image: %v", err))
	}
	if len(out.Artifacts) == 0 || out.Artifacts[0].Base64 == "" {
		return fail("No image generated in response. Please try again.")
	}

	log.Info("image generated")
	return Result{
		Success:     true,
		ImageBase64: out.Artifacts[0].Base64,
		Prompt:      enhanced,
		Style:       style,
	}
}

// apiErrorMessage prefers the JSON "message" field, then the whole JSON
// object, then the first 300 bytes of the body.
func apiErrorMessage(status int, raw []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		if m, ok := obj["message"]; ok {
			return fmt.Sprintf("API Error: %v", m)
		}
		return fmt.Sprintf("API Error: %s", strings.TrimSpace(string(raw)))
	}
	msg := fmt.Sprintf("API request failed: %d %s", status, http.StatusText(status))
	if len(raw) > 300 {
		raw = raw[:300]
	}
	return msg + " - " + string(raw)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
