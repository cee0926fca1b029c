package config

const (
	defaultPrescaleDir        = "~/.cache/reelsmith/prescaled"
	defaultOutputDir          = "~/.local/share/reelsmith/reels"
	defaultStorePath          = "~/.local/share/reelsmith/reelsmith.db"
	defaultLogDir             = "~/.local/share/reelsmith/logs"
	defaultVideoWidth         = 1280
	defaultVideoHeight        = 720
	defaultVideoFPS           = 24
	defaultVideoCodec         = "libx264"
	defaultMinClipSeconds     = 15
	defaultMaxClipSeconds     = 60
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultSubtitleFont       = "DejaVuSans-Bold"
	defaultSubtitleFontSize   = 56
	defaultSubtitleWrapChars  = 40
	defaultSubtitleMaxLines   = 5
	defaultSubtitleMarginV    = 60
	defaultTTSVoiceID         = "21m00Tcm4TlvDq8ikWAM"
	defaultTTSModelID         = "eleven_turbo_v2"
	defaultTTSBaseURL         = "https://api.elevenlabs.io"
	defaultTTSRequestsPerMin  = 20
	defaultTTSTimeoutSeconds  = 120
	defaultWordsPerMinute     = 150
	defaultNarrationLanguage  = "en"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PrescaleDir: defaultPrescaleDir,
			OutputDir:   defaultOutputDir,
			StorePath:   defaultStorePath,
			LogDir:      defaultLogDir,
		},
		Video: Video{
			Width:          defaultVideoWidth,
			Height:         defaultVideoHeight,
			FPS:            defaultVideoFPS,
			Codec:          defaultVideoCodec,
			MinClipSeconds: defaultMinClipSeconds,
			MaxClipSeconds: defaultMaxClipSeconds,
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
		},
		Subtitles: Subtitles{
			Font:      defaultSubtitleFont,
			FontSize:  defaultSubtitleFontSize,
			WrapChars: defaultSubtitleWrapChars,
			MaxLines:  defaultSubtitleMaxLines,
			MarginV:   defaultSubtitleMarginV,
		},
		TTS: TTS{
			VoiceID:           defaultTTSVoiceID,
			ModelID:           defaultTTSModelID,
			BaseURL:           defaultTTSBaseURL,
			RequestsPerMinute: defaultTTSRequestsPerMin,
			Timestamps:        true,
			TimeoutSeconds:    defaultTTSTimeoutSeconds,
		},
		Narration: Narration{
			WordsPerMinute: defaultWordsPerMinute,
			Language:       defaultNarrationLanguage,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
