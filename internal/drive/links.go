// Package drive turns shared Google Drive links into direct URLs and
// downloads the files behind them.
package drive

import "regexp"

// Share links come in a few shapes; all carry the file id:
//
//	https://drive.google.com/file/d/<id>/view?usp=sharing
//	https://drive.google.com/open?id=<id>
//	https://drive.google.com/uc?id=<id>&export=download
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
}

// ExtractFileID pulls the file id out of a Drive share link. Empty string
// means the link is not recognized.
func ExtractFileID(link string) string {
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}

// DirectViewURL is suitable for sending as an inline photo.
func DirectViewURL(id string) string {
	return "https://drive.google.com/uc?export=view&id=" + id
}

// DirectDownloadURL fetches the raw file bytes.
func DirectDownloadURL(id string) string {
	return "https://drive.google.com/uc?export=download&id=" + id
}

// ViewURLFromLink converts a share link into a direct view URL, or returns
// the link unchanged when no file id can be extracted (it may already be a
// plain image URL).
func ViewURLFromLink(link string) string {
	if id := ExtractFileID(link); id != "" {
		return DirectViewURL(id)
	}
	return link
}
