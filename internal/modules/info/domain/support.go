package domain

import "strings"

// SupportTopic identifies a support link.
type SupportTopic string

const (
	SupportTopicServer SupportTopic = "server"
	SupportTopicSource SupportTopic = "source"
	SupportTopicIssues SupportTopic = "issues"
)

// DefaultSupportTopic is used when no topic is given.
const DefaultSupportTopic = SupportTopicServer

// SupportLink is a labelled external link.
type SupportLink struct {
	Topic       SupportTopic
	Label       string
	URL         string
	Description string
}

var supportLinks = []SupportLink{
	{
		Topic:       SupportTopicServer,
		Label:       "Support Server",
		URL:         "https://discord.gg/xQF9f9yUEM",
		Description: "Need help or have questions? Join the support server.",
	},
	{
		Topic:       SupportTopicSource,
		Label:       "Source Code",
		URL:         "https://github.com/sglre6355/tunedeck",
		Description: "Browse the source code and self-hosting instructions.",
	},
	{
		Topic:       SupportTopicIssues,
		Label:       "Report an Issue",
		URL:         "https://github.com/sglre6355/tunedeck/issues",
		Description: "Found a bug? Open an issue with steps to reproduce it.",
	},
}

// SupportLinks returns every known support link in display order.
func SupportLinks() []SupportLink {
	links := make([]SupportLink, len(supportLinks))
	copy(links, supportLinks)
	return links
}

// LookupSupportLink returns the link for a topic. Matching ignores case and
// surrounding whitespace; an empty topic selects DefaultSupportTopic.
func LookupSupportLink(topic string) (SupportLink, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		topic = string(DefaultSupportTopic)
	}

	for _, link := range supportLinks {
		if string(link.Topic) == topic {
			return link, true
		}
	}
	return SupportLink{}, false
}
