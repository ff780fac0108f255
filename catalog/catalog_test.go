package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadTestCatalog(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	templates, err := LoadFile(filepath.Join("testdata", "memes.json"))
	if err != nil {
		t.Fatal(err)
	}
	return New(templates, opts...)
}

func TestLoadFile(t *testing.T) {
	templates, err := LoadFile(filepath.Join("testdata", "memes.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 5 {
		t.Fatalf("got %d templates, want 5", len(templates))
	}
	want := &Template{
		ID:       "181913649",
		Name:     "Drake Hotline Bling",
		URL:      "https://i.imgflip.com/30b1gx.jpg",
		Width:    1200,
		Height:   1200,
		BoxCount: 2,
		Examples: []any{"a", "b", "c"},
	}
	if diff := cmp.Diff(want, templates[0]); diff != "" {
		t.Error(diff)
	}
	tests := []struct {
		index    int
		id       ID
		url      string
		boxCount int
	}{
		{1, "112126428", "https://i.imgflip.com/1ur9b0.jpg", 3},
		{2, "87743020", "https://i.imgflip.com/1g8my4.jpg", 2},
		{3, "55311130", "https://i.imgflip.com/wxica.jpg", 1},
	}
	for _, tt := range tests {
		got := templates[tt.index]
		if got.ID != tt.id || got.URL != tt.url || got.BoxCount != tt.boxCount {
			t.Errorf("templates[%d] = %+v, want id %s url %s box_count %d", tt.index, got, tt.id, tt.url, tt.boxCount)
		}
	}
}

func TestByName(t *testing.T) {
	c := loadTestCatalog(t)
	exact := c.ByName("Drake Hotline Bling")
	if exact == nil || exact.Name != "Drake Hotline Bling" {
		t.Fatalf("ByName(exact) = %v", exact)
	}
	if got := c.ByName("drake"); got != exact {
		t.Errorf("ByName(drake) = %v, want %v", got, exact)
	}
	if got := c.ByName("DISTRACTED boyfriend"); got == nil || got.Name != "Distracted Boyfriend" {
		t.Errorf("ByName(case-insensitive) = %v", got)
	}
	if got := c.ByName("Nonexistent Template"); got != nil {
		t.Errorf("ByName(missing) = %v, want nil", got)
	}
}

func TestByID(t *testing.T) {
	c := loadTestCatalog(t)
	if got := c.ByID("87743020"); got == nil || got.Name != "Two Buttons" {
		t.Errorf("ByID = %v", got)
	}
	if got := c.ByID("1"); got != nil {
		t.Errorf("ByID(missing) = %v, want nil", got)
	}
}

func TestSearch(t *testing.T) {
	c := loadTestCatalog(t)
	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"o", 10, []string{"Drake Hotline Bling", "Distracted Boyfriend", "Two Buttons", "One Does Not Simply"}},
		{"o", 2, []string{"Drake Hotline Bling", "Distracted Boyfriend"}},
		{"FINE", 10, []string{"This Is Fine"}},
		{"zzz", 10, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := []string{}
			for _, tmpl := range c.Search(tt.query, tt.limit) {
				got = append(got, tmpl.Name)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestPopular(t *testing.T) {
	c := loadTestCatalog(t)
	if got := c.Popular(2); len(got) != 2 || got[0].Name != "Drake Hotline Bling" {
		t.Errorf("Popular(2) = %v", got)
	}
	if got := c.Popular(100); len(got) != 5 {
		t.Errorf("Popular(100) returned %d, want 5", len(got))
	}
}

func TestSuggestNames(t *testing.T) {
	tests := []struct {
		topic string
		want  []string
	}{
		{"Panic at work", []string{"Bike Fall", "This Is Fine", "This Is Fine", "Waiting Skeleton"}},
		{"wisdom", []string{"Ancient Aliens", "Roll Safe Think About It"}},
		{"cats", nil},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SuggestNames(tt.topic)); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestForTopic(t *testing.T) {
	c := loadTestCatalog(t, WithRand(func(n int) int { return n - 1 }))
	tests := []struct {
		topic string
		want  string
	}{
		{"programming decision making", "Two Buttons"},
		{"A Comparison of editors", "Drake Hotline Bling"},
		{"work deadlines", "This Is Fine"},
		{"relationship advice", "Distracted Boyfriend"},
		// no rule: last of the popular pool
		{"cats", "One Does Not Simply"},
		// rule matches but no suggested template exists
		{"wisdom", "One Does Not Simply"},
		// later rule fills in for a missing suggestion
		{"wisdom at work", "This Is Fine"},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got := c.ForTopic(tt.topic)
			if got == nil || got.Name != tt.want {
				t.Errorf("ForTopic(%q) = %v, want %s", tt.topic, got, tt.want)
			}
		})
	}
}

func TestEmptyCatalog(t *testing.T) {
	c := New(nil)
	if c.Random() != nil || c.ForTopic("cats") != nil || c.ByName("x") != nil {
		t.Error("empty catalog returned a template")
	}
}

func TestLoadFallsBackToImgflip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"memes":[{"id":"181913649","name":"Drake Hotline Bling","url":"https://i.imgflip.com/30b1gx.jpg","width":1200,"height":1200,"box_count":2}]}}`))
	}))
	defer ts.Close()
	remote := NewImgflip(ts.Client(), ts.URL, ts.URL, "", "")

	c, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), remote, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 || c.ByID("181913649") == nil {
		t.Errorf("Load() = %v", c.Names())
	}
}

func TestLoadErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error_message":"rate limited"}`))
	}))
	defer ts.Close()
	remote := NewImgflip(ts.Client(), ts.URL, ts.URL, "", "")

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), remote, nil); err == nil {
		t.Error("Load() with failing remote error = nil, want error")
	}
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), nil, nil); err == nil {
		t.Error("Load() without remote error = nil, want error")
	}
}

func TestImgflipCaption(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		if r.PostForm.Get("template_id") != "181913649" || r.PostForm.Get("text0") != "TOP" || r.PostForm.Get("username") != "user" {
			_, _ = w.Write([]byte(`{"success":false,"error_message":"bad form"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.imgflip.com/abc.jpg"}}`))
	}))
	defer ts.Close()

	ctx := context.Background()
	i := NewImgflip(ts.Client(), ts.URL, ts.URL, "user", "pass")
	got, err := i.Caption(ctx, "181913649", "TOP", "BOTTOM")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://i.imgflip.com/abc.jpg" {
		t.Errorf("Caption() = %s", got)
	}
	if _, err := i.Caption(ctx, "1", "TOP", "BOTTOM"); err == nil {
		t.Error("Caption() error = nil, want error")
	}
	if _, err := NewImgflip(ts.Client(), ts.URL, ts.URL, "", "").Caption(ctx, "1", "a", "b"); err == nil {
		t.Error("Caption() without credentials error = nil, want error")
	}
}

func TestInfo(t *testing.T) {
	c := loadTestCatalog(t)
	want := "Template: This Is Fine\nID: 55311130\nDimensions: 580x282\nText boxes: 1\nURL: https://i.imgflip.com/wxica.jpg"
	if got := Info(c.ByName("This Is Fine")); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}
