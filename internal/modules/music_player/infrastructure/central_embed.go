package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorActive = 0x9966FF
	colorPaused = 0xFFA500
)

const (
	idlePanelTitle       = "Ultimate Music Control Center"
	idlePanelDescription = "Join a voice channel and type a song name or paste a link in this channel to start playing."
)

var _ ports.EmbedSink = (*CentralEmbedSink)(nil)

// CentralEmbedSink renders the control panel message of the central channel.
type CentralEmbedSink struct {
	session    *discordgo.Session
	httpClient *http.Client
	supportURL string

	thumbnails sync.Map // track key -> resolved thumbnail URL
}

// NewCentralEmbedSink creates a new CentralEmbedSink.
func NewCentralEmbedSink(session *discordgo.Session, supportURL string) *CentralEmbedSink {
	return &CentralEmbedSink{
		session: session,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		supportURL: supportURL,
	}
}

// RenderActive edits the panel to show the projection with playback controls.
func (s *CentralEmbedSink) RenderActive(
	ctx context.Context,
	target ports.EmbedTarget,
	projection *domain.DisplayProjection,
) error {
	embed := s.activeEmbed(ctx, projection)
	components := ControlComponents(projection.Paused, projection.LoopMode, s.supportURL)

	edit := discordgo.NewMessageEdit(target.ChannelID.String(), target.MessageID.String())
	edit.Embeds = &[]*discordgo.MessageEmbed{embed}
	edit.Components = &components

	_, err := s.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return err
}

// RenderIdle edits the panel to the idle panel and removes every control.
func (s *CentralEmbedSink) RenderIdle(ctx context.Context, target ports.EmbedTarget) error {
	edit := discordgo.NewMessageEdit(target.ChannelID.String(), target.MessageID.String())
	edit.Embeds = &[]*discordgo.MessageEmbed{idleEmbed()}
	edit.Components = &[]discordgo.MessageComponent{}

	_, err := s.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return err
}

// PostIdle posts a new idle panel and returns its message ID.
func (s *CentralEmbedSink) PostIdle(ctx context.Context, channelID snowflake.ID) (snowflake.ID, error) {
	msg, err := s.session.ChannelMessageSendEmbed(
		channelID.String(),
		idleEmbed(),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return 0, err
	}
	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return 0, err
	}
	return messageID, nil
}

// Exists reports whether the panel message is still present.
func (s *CentralEmbedSink) Exists(ctx context.Context, target ports.EmbedTarget) (bool, error) {
	_, err := s.session.ChannelMessage(
		target.ChannelID.String(),
		target.MessageID.String(),
		discordgo.WithContext(ctx),
	)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

func idleEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       idlePanelTitle,
		Description: idlePanelDescription,
		Color:       colorActive,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Nothing is playing",
		},
	}
}

func (s *CentralEmbedSink) activeEmbed(
	ctx context.Context,
	projection *domain.DisplayProjection,
) *discordgo.MessageEmbed {
	color := colorActive
	status := "Playing"
	if projection.Paused {
		color = colorPaused
		status = "Paused"
	}

	requester := "Autoplay"
	if projection.RequesterID != 0 {
		requester = fmt.Sprintf("<@%d>", projection.RequesterID)
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now Playing",
		},
		Title:       projection.Title,
		URL:         projection.URI,
		Description: fmt.Sprintf("by **%s**", projection.Author),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Duration",
				Value:  formatProgress(projection),
				Inline: true,
			},
			{
				Name:   "Requested by",
				Value:  requester,
				Inline: true,
			},
			{
				Name:   "Volume",
				Value:  fmt.Sprintf("%d%%", projection.Volume),
				Inline: true,
			},
			{
				Name:   "Loop",
				Value:  fmt.Sprintf("%s %s", projection.LoopMode.Emoji(), projection.LoopMode),
				Inline: true,
			},
			{
				Name:   "Up Next",
				Value:  fmt.Sprintf("%d in queue", projection.QueueLength),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: status + " • " + projection.Source.Label(),
		},
	}

	if thumbnailURL := s.getBestThumbnail(
		ctx,
		projection.Source,
		projection.Identifier,
		projection.ArtworkURL,
	); thumbnailURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{
			URL: thumbnailURL,
		}
	}

	return embed
}

func formatProgress(projection *domain.DisplayProjection) string {
	if projection.IsStream {
		return projection.FormattedDuration()
	}
	return fmt.Sprintf(
		"%s / %s",
		domain.FormatDuration(projection.Position),
		projection.FormattedDuration(),
	)
}

// ControlComponents builds the two rows of playback controls shown under an active panel.
func ControlComponents(
	paused bool,
	loopMode domain.LoopMode,
	supportURL string,
) []discordgo.MessageComponent {
	toggle := discordgo.Button{
		Label:    "Pause",
		Style:    discordgo.PrimaryButton,
		CustomID: ports.ControlPause,
		Emoji:    &discordgo.ComponentEmoji{Name: "⏸️"},
	}
	if paused {
		toggle = discordgo.Button{
			Label:    "Resume",
			Style:    discordgo.SuccessButton,
			CustomID: ports.ControlResume,
			Emoji:    &discordgo.ComponentEmoji{Name: "▶️"},
		}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				controlButton("Skip", "⏭️", ports.ControlSkip),
				toggle,
				discordgo.Button{
					Label:    "Stop",
					Style:    discordgo.DangerButton,
					CustomID: ports.ControlStop,
					Emoji:    &discordgo.ComponentEmoji{Name: "⏹️"},
				},
				controlButton("Queue", "📜", ports.ControlQueue),
				controlButton("Loop", loopMode.Emoji(), ports.ControlLoop),
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				controlButton("Vol -", "🔉", ports.ControlVolumeDown),
				controlButton("Vol +", "🔊", ports.ControlVolumeUp),
				controlButton("Clear", "🗑️", ports.ControlClear),
				controlButton("Shuffle", "🔀", ports.ControlShuffle),
				discordgo.Button{
					Label: "Support",
					Style: discordgo.LinkButton,
					URL:   supportURL,
				},
			},
		},
	}
}

func controlButton(label, emoji, customID string) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    discordgo.SecondaryButton,
		CustomID: customID,
		Emoji:    &discordgo.ComponentEmoji{Name: emoji},
	}
}

// isNotFound reports whether a Discord REST error means the resource is gone.
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}
	if restErr.Message == nil {
		return false
	}
	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
		return true
	}
	return false
}

// getBestThumbnail attempts to find the best quality thumbnail for the track.
// For YouTube, it tries different quality levels (maxresdefault, sddefault, etc.).
// For Twitch, it attempts to use a higher resolution version.
// For other sources, it returns the original artwork URL.
func (s *CentralEmbedSink) getBestThumbnail(
	ctx context.Context,
	source domain.TrackSource,
	identifier string,
	fallbackURL string,
) string {
	key := string(source) + ":" + identifier + ":" + fallbackURL
	if cached, ok := s.thumbnails.Load(key); ok {
		return cached.(string)
	}

	var url string
	switch source {
	case domain.TrackSourceYouTube:
		if identifier == "" {
			return fallbackURL
		}
		url = s.getYouTubeThumbnail(ctx, identifier, fallbackURL)
	case domain.TrackSourceTwitch:
		url = s.getTwitchThumbnail(ctx, fallbackURL)
	default:
		return fallbackURL
	}

	s.thumbnails.Store(key, url)
	return url
}

// getYouTubeThumbnail tries to find the highest quality YouTube thumbnail available.
func (s *CentralEmbedSink) getYouTubeThumbnail(
	ctx context.Context,
	videoID string,
	fallbackURL string,
) string {
	qualities := []string{"maxresdefault", "sddefault", "hqdefault", "mqdefault"}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, quality := range qualities {
		url := fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality)
		if s.urlExists(ctx, url) {
			return url
		}
	}

	return fallbackURL
}

// getTwitchThumbnail tries to get a higher resolution Twitch thumbnail.
func (s *CentralEmbedSink) getTwitchThumbnail(ctx context.Context, artworkURL string) string {
	if artworkURL == "" {
		return ""
	}

	// Try to get 1280x720 instead of 440x248
	highResURL := strings.Replace(artworkURL, "440x248", "1280x720", 1)
	if highResURL == artworkURL {
		return artworkURL
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.urlExists(ctx, highResURL) {
		return highResURL
	}

	return artworkURL
}

// urlExists checks if a URL returns a successful response using a HEAD request.
func (s *CentralEmbedSink) urlExists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}
