package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateNarration(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return errors.New("video.width and video.height must be positive")
	}
	if c.Video.FPS <= 0 {
		return errors.New("video.fps must be positive")
	}
	if c.Video.MinClipSeconds <= 0 {
		return errors.New("video.min_clip_seconds must be positive")
	}
	if c.Video.MaxClipSeconds < c.Video.MinClipSeconds {
		return errors.New("video.max_clip_seconds must be >= video.min_clip_seconds")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.Font == "" {
		return errors.New("subtitles.font must be set")
	}
	if c.Subtitles.FontSize <= 0 {
		return errors.New("subtitles.font_size must be positive")
	}
	if c.Subtitles.WrapChars <= 0 {
		return errors.New("subtitles.wrap_chars must be positive")
	}
	if c.Subtitles.MaxLines <= 0 {
		return errors.New("subtitles.max_lines must be positive")
	}
	if c.Subtitles.MarginV < 0 {
		return errors.New("subtitles.margin_v must be >= 0")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if err := ensurePositiveMap(map[string]int{
		"tts.requests_per_minute": c.TTS.RequestsPerMinute,
		"tts.timeout_seconds":     c.TTS.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.TTS.BaseURL == "" {
		return errors.New("tts.base_url must be set")
	}
	return nil
}

func (c *Config) validateNarration() error {
	if c.Narration.WordsPerMinute <= 0 {
		return errors.New("narration.words_per_minute must be positive")
	}
	if _, err := language.Parse(c.Narration.Language); err != nil {
		return fmt.Errorf("narration.language %q is not a valid language tag: %w", c.Narration.Language, err)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
