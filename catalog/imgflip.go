package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/k1LoW/errors"
)

// Imgflip is a client of the Imgflip API.
type Imgflip struct {
	client      *http.Client
	getMemesURL string
	captionURL  string
	username    string
	password    string
}

func NewImgflip(client *http.Client, getMemesURL, captionURL, username, password string) *Imgflip {
	if client == nil {
		client = http.DefaultClient
	}
	return &Imgflip{
		client:      client,
		getMemesURL: getMemesURL,
		captionURL:  captionURL,
		username:    username,
		password:    password,
	}
}

// CanCaption reports whether credentials for remote rendering are set.
func (i *Imgflip) CanCaption() bool {
	return i != nil && i.username != "" && i.password != ""
}

type getMemesResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Memes []struct {
			ID       ID     `json:"id"`
			Name     string `json:"name"`
			URL      string `json:"url"`
			Width    int    `json:"width"`
			Height   int    `json:"height"`
			BoxCount int    `json:"box_count"`
		} `json:"memes"`
	} `json:"data"`
	ErrorMessage string `json:"error_message"`
}

// GetMemes fetches the popular template list.
func (i *Imgflip) GetMemes(ctx context.Context) (_ []*Template, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.getMemesURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Imgflip templates: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch Imgflip templates: status code %d", res.StatusCode)
	}
	var r getMemesResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode Imgflip templates: %w", err)
	}
	if !r.Success {
		return nil, fmt.Errorf("failed to fetch Imgflip templates: %s", r.ErrorMessage)
	}
	templates := make([]*Template, 0, len(r.Data.Memes))
	for _, m := range r.Data.Memes {
		templates = append(templates, &Template{
			ID:       m.ID,
			Name:     m.Name,
			URL:      m.URL,
			Width:    m.Width,
			Height:   m.Height,
			BoxCount: m.BoxCount,
			Examples: []any{},
		})
	}
	return templates, nil
}

type captionResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	ErrorMessage string `json:"error_message"`
}

// Caption renders a meme remotely and returns its URL.
func (i *Imgflip) Caption(ctx context.Context, templateID, top, bottom string) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if !i.CanCaption() {
		return "", fmt.Errorf("imgflip credentials not configured")
	}
	form := url.Values{
		"template_id": {templateID},
		"username":    {i.username},
		"password":    {i.password},
		"text0":       {top},
		"text1":       {bottom},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.captionURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to caption with Imgflip: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to caption with Imgflip: status code %d", res.StatusCode)
	}
	var r captionResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("failed to decode Imgflip response: %w", err)
	}
	if !r.Success {
		msg := r.ErrorMessage
		if msg == "" {
			msg = "Unknown error"
		}
		return "", fmt.Errorf("imgflip API error: %s", msg)
	}
	return r.Data.URL, nil
}
