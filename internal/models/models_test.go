package models

import "testing"

func TestNewCachedShow(t *testing.T) {
	show := Show{ID: "show-1", Name: "News A", Publisher: "Folha"}
	cached := NewCachedShow("news-a", "BR", show)

	if cached.Query != "news-a" || cached.Market != "BR" {
		t.Errorf("unexpected key: %q %q", cached.Query, cached.Market)
	}
	if cached.ShowID != "show-1" || cached.ShowName != "News A" {
		t.Errorf("unexpected resolution: %q %q", cached.ShowID, cached.ShowName)
	}
	if cached.CreatedAt.IsZero() || cached.UpdatedAt.IsZero() {
		t.Error("expected timestamps set")
	}
	if err := cached.Validate(); err != nil {
		t.Errorf("expected valid row, got %v", err)
	}
}

func TestCachedShowValidate(t *testing.T) {
	cases := []struct {
		name   string
		cached CachedShow
	}{
		{"Missing Query", CachedShow{Market: "BR", ShowID: "x"}},
		{"Missing Market", CachedShow{Query: "q", ShowID: "x"}},
		{"Missing Show ID", CachedShow{Query: "q", Market: "BR"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cached.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
