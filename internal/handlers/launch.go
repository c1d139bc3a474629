package handlers

import (
	"net/http"
	"net/url"
	"strings"
)

// launchTemplates is the fixed, server-controlled set of redirect targets.
// Callers pick one by name and supply only the substituted value; the
// pattern itself is never caller input.
var launchTemplates = map[string]string{
	"google":     "https://www.google.com/search?q={}",
	"bing":       "https://www.bing.com/search?q={}",
	"duckduckgo": "https://duckduckgo.com/?q={}",
	"shodan":     "https://www.shodan.io/search?query={}",
}

type LaunchHandler struct{}

func NewLaunchHandler() *LaunchHandler {
	return &LaunchHandler{}
}

// Open redirects to the named search engine with the value substituted in.
func (h *LaunchHandler) Open(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("template"))
	value := strings.TrimSpace(r.URL.Query().Get("value"))

	pattern, ok := launchTemplates[name]
	if !ok {
		http.Error(w, "unknown launch template", http.StatusBadRequest)
		return
	}
	target := strings.Replace(pattern, "{}", url.QueryEscape(value), 1)
	http.Redirect(w, r, target, http.StatusFound)
}
