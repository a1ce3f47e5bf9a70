package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nstatus/nstatus/internal/domain"
)

// Settings is the static description of what is watched and how it is shown.
// It is loaded once at start and never written back.
type Settings struct {
	Server   ServerSettings   `yaml:"server"`
	Discord  DiscordSettings  `yaml:"discord"`
	Features FeatureSettings  `yaml:"features"`
	Embed    EmbedSettings    `yaml:"embed"`
	Presence PresenceSettings `yaml:"presence"`
	Storage  StorageSettings  `yaml:"storage"`
	Commands CommandSettings  `yaml:"commands"`
}

type ServerSettings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns host:port as shown in the message.
func (s ServerSettings) Address() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

type DiscordSettings struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
	// MessageID seeds the runtime state when no state file exists yet.
	MessageID string `yaml:"message_id"`
	// GuildID scopes the slash command to one guild; empty registers it globally.
	GuildID string `yaml:"guild_id"`
}

type FeatureSettings struct {
	ShowPing     bool `yaml:"show_ping"`
	ShowMap      bool `yaml:"show_map"`
	ShowGamemode bool `yaml:"show_gamemode"`
	ShowPeak24h  bool `yaml:"show_peak_24h"`
}

type EmbedSettings struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Color       string         `yaml:"color"`
	Image       string         `yaml:"image"`
	FooterText  string         `yaml:"footer_text"`
	FooterIcon  string         `yaml:"footer_icon"`
	Gamemode    string         `yaml:"gamemode"`
	Buttons     []ButtonConfig `yaml:"buttons"`

	color int
}

// ColorValue returns the parsed embed color. Valid after Validate.
func (e EmbedSettings) ColorValue() int { return e.color }

type ButtonConfig struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type PresenceSettings struct {
	ActivityType string `yaml:"activity_type"`
	OnlineStatus string `yaml:"online_status"`
	StartingText string `yaml:"starting_text"`
	OfflineText  string `yaml:"offline_text"`
}

type StorageSettings struct {
	PeakDataFile string `yaml:"peak_data_file"`
	StateFile    string `yaml:"state_file"`
}

type CommandSettings struct {
	Enabled  bool          `yaml:"enabled"`
	Name     string        `yaml:"name"`
	Cooldown time.Duration `yaml:"cooldown"`
	Burst    int           `yaml:"burst"`
}

// DefaultSettings returns the values applied before the file is decoded.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{Port: 27015},
		Features: FeatureSettings{
			ShowPing:     true,
			ShowMap:      true,
			ShowGamemode: false,
			ShowPeak24h:  true,
		},
		Embed: EmbedSettings{
			Title:       "Garry's Mod server",
			Description: "A live overview of your Garry's Mod server.",
			Color:       "#2b2d31",
		},
		Presence: PresenceSettings{
			ActivityType: string(domain.ActivityWatching),
			OnlineStatus: string(domain.StatusDND),
			StartingText: "Watching the server...",
			OfflineText:  "Server offline",
		},
		Storage: StorageSettings{
			PeakDataFile: "peak-data.json",
			StateFile:    "state.json",
		},
		Commands: CommandSettings{
			Enabled:  true,
			Name:     "status",
			Cooldown: 30 * time.Second,
			Burst:    1,
		},
	}
}

// LoadSettings reads and validates the yaml settings file.
// tokenOverride, when set, replaces discord.token.
func LoadSettings(path, tokenOverride string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s, err := ParseSettings(data)
	if err != nil {
		return nil, err
	}

	if tokenOverride != "" {
		s.Discord.Token = tokenOverride
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// ParseSettings decodes yaml on top of DefaultSettings without validating.
func ParseSettings(data []byte) (*Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings yaml: %w", err)
	}
	return s, nil
}

// Validate checks required fields and normalizes derived values.
func (s *Settings) Validate() error {
	var errs []error

	s.Server.Host = strings.TrimSpace(s.Server.Host)
	if s.Server.Host == "" {
		errs = append(errs, errors.New("server.host is required"))
	}
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", s.Server.Port))
	}

	if strings.TrimSpace(s.Discord.Token) == "" {
		errs = append(errs, errors.New("discord.token is required (or set NSTATUS_TOKEN)"))
	}
	if strings.TrimSpace(s.Discord.ChannelID) == "" {
		errs = append(errs, errors.New("discord.channel_id is required"))
	}

	color, err := ParseColor(s.Embed.Color)
	if err != nil {
		errs = append(errs, fmt.Errorf("embed.color: %w", err))
	}
	s.Embed.color = color

	for i, b := range s.Embed.Buttons {
		if b.URL == "" || b.Label == "" {
			continue // skipped at render time
		}
		if !isHTTPURL(b.URL) {
			errs = append(errs, fmt.Errorf("embed.buttons[%d].url must be an http(s) URL, got %q", i, b.URL))
		}
	}

	if _, ok := ParseActivity(s.Presence.ActivityType); !ok {
		errs = append(errs, fmt.Errorf("presence.activity_type %q is not supported", s.Presence.ActivityType))
	}
	if _, ok := ParseStatus(s.Presence.OnlineStatus); !ok {
		errs = append(errs, fmt.Errorf("presence.online_status %q is not supported", s.Presence.OnlineStatus))
	}

	if s.Storage.PeakDataFile == "" {
		errs = append(errs, errors.New("storage.peak_data_file is required"))
	}
	if s.Storage.StateFile == "" {
		errs = append(errs, errors.New("storage.state_file is required"))
	}

	if s.Commands.Enabled {
		if s.Commands.Name == "" {
			errs = append(errs, errors.New("commands.name is required when commands are enabled"))
		}
		if s.Commands.Cooldown < 0 {
			errs = append(errs, errors.New("commands.cooldown must be >= 0"))
		}
		if s.Commands.Burst < 1 {
			s.Commands.Burst = 1
		}
	}

	return errors.Join(errs...)
}

// ParseColor accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseColor(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != 6 {
		return 0, fmt.Errorf("expected 6 hex digits, got %q", raw)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color %q: %w", raw, err)
	}
	return int(v), nil
}

// ParseActivity maps a settings value to an ActivityKind.
func ParseActivity(raw string) (domain.ActivityKind, bool) {
	switch k := domain.ActivityKind(strings.ToLower(strings.TrimSpace(raw))); k {
	case domain.ActivityPlaying, domain.ActivityStreaming, domain.ActivityListening,
		domain.ActivityWatching, domain.ActivityCompeting:
		return k, true
	case "":
		return domain.ActivityWatching, true
	default:
		return "", false
	}
}

// ParseStatus maps a settings value to a PresenceStatus.
func ParseStatus(raw string) (domain.PresenceStatus, bool) {
	switch st := domain.PresenceStatus(strings.ToLower(strings.TrimSpace(raw))); st {
	case domain.StatusOnline, domain.StatusIdle, domain.StatusDND, domain.StatusInvisible:
		return st, true
	case "":
		return domain.StatusDND, true
	default:
		return "", false
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
