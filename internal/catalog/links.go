package catalog

import (
	"sort"
	"strings"
)

const spotifyEmbedKey = "spotifyembed"

var musicPlatforms = map[string]struct{}{
	"spotify":      {},
	"applemusic":   {},
	"soundcloud":   {},
	"youtube":      {},
	"youtubemusic": {},
	"tidal":        {},
	"amazon":       {},
	"amazonmusic":  {},
	"deezer":       {},
	"bandcamp":     {},
	"audiomack":    {},
}

// normalizePlatform folds case and drops - and _ so apple_music, appleMusic
// and Apple-Music compare equal.
func normalizePlatform(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("-", "", "_", "").Replace(key)
}

// IsSpotifyEmbed reports whether a socials key holds the Spotify player URL.
func IsSpotifyEmbed(key string) bool {
	return normalizePlatform(key) == spotifyEmbedKey
}

// SplitSocials separates streaming links from social profiles and pulls out
// the Spotify player URL. Output is sorted by platform key.
func SplitSocials(socials map[string]string) (music, social []Link, spotifyEmbed string) {
	keys := make([]string, 0, len(socials))
	for k := range socials {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	music = []Link{}
	social = []Link{}
	for _, key := range keys {
		url := strings.TrimSpace(socials[key])
		if url == "" {
			continue
		}
		norm := normalizePlatform(key)
		if norm == spotifyEmbedKey {
			spotifyEmbed = url
			continue
		}
		if _, ok := musicPlatforms[norm]; ok {
			music = append(music, Link{Platform: key, URL: url})
			continue
		}
		social = append(social, Link{Platform: key, URL: url})
	}
	return music, social, spotifyEmbed
}
