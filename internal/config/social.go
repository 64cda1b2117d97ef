package config

import "strings"

// SocialPlatform identifies the icon used for a social link.
type SocialPlatform string

const (
	SocialGitHub   SocialPlatform = "github"
	SocialGitLab   SocialPlatform = "gitlab"
	SocialCodeberg SocialPlatform = "codeberg"
	SocialMastodon SocialPlatform = "mastodon"
	SocialDiscord  SocialPlatform = "discord"
	SocialLinkedIn SocialPlatform = "linkedin"
	SocialX        SocialPlatform = "x"
	SocialBluesky  SocialPlatform = "bluesky"
	SocialRSS      SocialPlatform = "rss"
	SocialEmail    SocialPlatform = "email"
)

var socialPlatforms = map[SocialPlatform]struct{}{
	SocialGitHub: {}, SocialGitLab: {}, SocialCodeberg: {}, SocialMastodon: {}, SocialDiscord: {},
	SocialLinkedIn: {}, SocialX: {}, SocialBluesky: {}, SocialRSS: {}, SocialEmail: {},
}

// NormalizeSocialPlatform canonicalizes a platform name, returning "" when unknown.
func NormalizeSocialPlatform(raw string) SocialPlatform {
	p := SocialPlatform(strings.ToLower(strings.TrimSpace(raw)))
	if p == "twitter" {
		p = SocialX
	}
	if _, ok := socialPlatforms[p]; ok {
		return p
	}
	return ""
}
