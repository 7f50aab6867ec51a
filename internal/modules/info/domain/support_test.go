package domain

import "testing"

func TestLookupSupportLink(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		wantTopic SupportTopic
		wantOK    bool
	}{
		{name: "empty selects default", topic: "", wantTopic: SupportTopicServer, wantOK: true},
		{name: "server", topic: "server", wantTopic: SupportTopicServer, wantOK: true},
		{name: "case and whitespace ignored", topic: "  Source ", wantTopic: SupportTopicSource, wantOK: true},
		{name: "issues", topic: "issues", wantTopic: SupportTopicIssues, wantOK: true},
		{name: "unknown", topic: "donate", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, ok := LookupSupportLink(tt.topic)

			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if link.Topic != tt.wantTopic {
				t.Errorf("expected topic %q, got %q", tt.wantTopic, link.Topic)
			}
			if ok && link.URL == "" {
				t.Error("expected link URL to be set")
			}
		})
	}
}

func TestSupportLinks_ReturnsCopy(t *testing.T) {
	links := SupportLinks()
	links[0].URL = "https://example.com"

	if SupportLinks()[0].URL == "https://example.com" {
		t.Error("expected SupportLinks to return a copy")
	}
}
