package url

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	neturl "net/url"
	"strings"
)

const defaultYoutubeAPIURL = "https://www.googleapis.com/youtube/v3"

var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"youtu.be":        true,
	"www.youtu.be":    true,
	"m.youtube.com":   true,
}

// extractYoutubeVideoID recognizes the common video url shapes:
// youtu.be/<id>, /watch?v=<id> and /shorts/<id>. Other youtube urls fall
// back to regular title sniffing.
func extractYoutubeVideoID(u *neturl.URL) (string, bool) {
	if !youtubeHosts[u.Hostname()] {
		return "", false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if u.Hostname() == "youtu.be" || u.Hostname() == "www.youtu.be" {
		if len(segments) > 0 && segments[0] != "" {
			return segments[0], true
		}
		return "", false
	}
	switch segments[0] {
	case "watch":
		id := u.Query().Get("v")
		return id, id != ""
	case "shorts":
		if len(segments) > 1 {
			return segments[1], true
		}
	}
	return "", false
}

type videoListResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// youtubeTitle asks the data API for the video metadata, which works even
// for pages whose title only materializes through javascript.
func (p *URLPlugin) youtubeTitle(ctx context.Context, u *neturl.URL, videoID string) string {
	api := fmt.Sprintf("%s/videos?id=%s&key=%s&part=snippet",
		p.ytAPIURL, neturl.QueryEscape(videoID), neturl.QueryEscape(p.ytAPIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api, nil)
	if err != nil {
		return fmt.Sprintf("Problème avec l'url %s: %v", u, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Problème avec l'url %s: %v", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Oops, wrong status code, got %s", resp.Status)
	}

	var parsed videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Sprintf("Problème avec l'url %s: %v", u, err)
	}
	if len(parsed.Items) == 0 {
		return fmt.Sprintf("Rien trouvé pour vidéo %s", videoID)
	}

	snip := parsed.Items[0].Snippet
	published := ""
	if snip.PublishedAt != "" {
		published = " - " + snip.PublishedAt
	}
	return fmt.Sprintf("%s [%s%s] [%s]", snip.Title, snip.ChannelTitle, published, u)
}
