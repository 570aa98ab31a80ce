package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/spotkit/internal/client"
	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
	tu "github.com/desertthunder/spotkit/internal/testing"
)

func newClient(tr *tu.Transport) *Client {
	return New(client.New(tr, oauth.NewMemoryCache(&oauth.Token{AccessToken: "abc"})))
}

func TestParams(t *testing.T) {
	yes := true

	tc := []struct {
		name   string
		params *Params
		want   string
	}{
		{name: "empty", params: NewParams(), want: ""},
		{name: "nil", params: nil, want: ""},
		{name: "unset values omitted", params: NewParams().Set("market", "").SetInt("limit", 0).SetBool("public", nil).SetJoined("ids", nil), want: ""},
		{name: "all kinds", params: NewParams().Set("market", "US").SetInt("limit", 10).SetBool("public", &yes).SetJoined("ids", []string{"a", "b"}), want: "ids=a%2Cb&limit=10&market=US&public=true"},
		{name: "escaping", params: NewParams().Set("after", "a b&c"), want: "after=a+b%26c"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlbums(t *testing.T) {
	ctx := context.Background()

	t.Run("Album", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/albums/al1?market=GB", tu.Reply{Body: `{"id":"al1","name":"Music Has the Right to Children","album_type":"album"}`})

		album, err := newClient(tr).Album(ctx, "al1", "GB")
		if err != nil {
			t.Fatalf("Album() error = %v", err)
		}
		if album.ID != "al1" || album.AlbumType != models.AlbumTypeAlbum {
			t.Errorf("unexpected album %+v", album)
		}
		if tr.LastRequest().Header.Get("Authorization") != "Bearer abc" {
			t.Error("expected authorized request")
		}
	})

	t.Run("AlbumTracksPager streams every page", func(t *testing.T) {
		first := "https://api.spotify.com/v1/albums/al1/tracks?limit=2"
		second := "https://api.spotify.com/v1/albums/al1/tracks?offset=2&limit=2"
		tr := tu.NewTransport(t).
			On(first, tu.Reply{Body: `{"href":"","items":[{"name":"a"},{"name":"b"}],"limit":2,"next":"` + second + `","offset":0,"previous":null,"total":3}`}).
			On(second, tu.Reply{Body: `{"href":"","items":[{"name":"c"}],"limit":2,"next":null,"offset":2,"previous":null,"total":3}`})

		p, err := newClient(tr).AlbumTracksPager(ctx, "al1", PageOptions{Limit: 2})
		if err != nil {
			t.Fatalf("AlbumTracksPager() error = %v", err)
		}
		tracks, err := p.Collect(ctx, 0)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if len(tracks) != 3 || tracks[2].Name != "c" {
			t.Errorf("unexpected tracks %+v", tracks)
		}
		if tr.Calls() != 2 {
			t.Errorf("expected 2 requests, got %d", tr.Calls())
		}
	})

	t.Run("Albums validates IDs", func(t *testing.T) {
		tr := tu.NewTransport(t)
		c := newClient(tr)

		if _, err := c.Albums(ctx, nil, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if _, err := c.Albums(ctx, make([]string, 21), ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := c.Album(ctx, " ", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if tr.Calls() != 0 {
			t.Error("invalid input should not reach the transport")
		}
	})

	t.Run("path segments are escaped", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/albums/a%2Fb", tu.Reply{Body: `{}`})
		if _, err := newClient(tr).Album(ctx, "a/b", ""); err != nil {
			t.Fatalf("Album() error = %v", err)
		}
	})
}

func TestArtists(t *testing.T) {
	ctx := context.Background()

	t.Run("ArtistAlbums query", func(t *testing.T) {
		want := "https://api.spotify.com/v1/artists/ar1/albums?country=US&include_groups=album%2Csingle&limit=5"
		tr := tu.NewTransport(t).On(want, tu.Reply{Body: `{"items":[{"name":"Tomorrow's Harvest"}],"next":null}`})

		page, err := newClient(tr).ArtistAlbums(ctx, "ar1", ArtistAlbumsOptions{
			IncludeGroups: []models.AlbumType{models.AlbumTypeAlbum, models.AlbumTypeSingle},
			Country:       "US",
			Limit:         5,
		})
		if err != nil {
			t.Fatalf("ArtistAlbums() error = %v", err)
		}
		if len(page.Items) != 1 {
			t.Errorf("unexpected page %+v", page)
		}
	})

	t.Run("Artists", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/artists?ids=a%2Cb", tu.Reply{Body: `{"artists":[{"id":"a"},{"id":"b"}]}`})
		artists, err := newClient(tr).Artists(ctx, []string{"a", "b"})
		if err != nil || len(artists) != 2 {
			t.Fatalf("Artists() = %v, %v", artists, err)
		}
	})

	t.Run("ArtistTopTracks", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/artists/ar1/top-tracks?country=SE", tu.Reply{Body: `{"tracks":[{"name":"t1"}]}`})
		tracks, err := newClient(tr).ArtistTopTracks(ctx, "ar1", "SE")
		if err != nil || len(tracks) != 1 {
			t.Fatalf("ArtistTopTracks() = %v, %v", tracks, err)
		}
	})

	t.Run("RelatedArtists", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/artists/ar1/related-artists", tu.Reply{Body: `{"artists":[]}`})
		if _, err := newClient(tr).RelatedArtists(ctx, "ar1"); err != nil {
			t.Fatalf("RelatedArtists() error = %v", err)
		}
	})
}

func TestFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("FollowArtists", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/following?ids=a%2Cb&type=artist", tu.Reply{Status: http.StatusNoContent})
		if err := newClient(tr).FollowArtists(ctx, []string{"a", "b"}); err != nil {
			t.Fatalf("FollowArtists() error = %v", err)
		}
		if tr.LastRequest().Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", tr.LastRequest().Method)
		}
	})

	t.Run("UnfollowArtists", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/following?ids=a&type=artist", tu.Reply{Status: http.StatusNoContent})
		if err := newClient(tr).UnfollowArtists(ctx, []string{"a"}); err != nil {
			t.Fatalf("UnfollowArtists() error = %v", err)
		}
		if tr.LastRequest().Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", tr.LastRequest().Method)
		}
	})

	t.Run("FollowsArtists", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/following/contains?ids=a%2Cb&type=artist", tu.Reply{Body: `[true,false]`})
		got, err := newClient(tr).FollowsArtists(ctx, []string{"a", "b"})
		if err != nil || len(got) != 2 || !got[0] || got[1] {
			t.Fatalf("FollowsArtists() = %v, %v", got, err)
		}
	})

	t.Run("FollowPlaylist", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/playlists/p1/followers", tu.Reply{})
		public := false
		if err := newClient(tr).FollowPlaylist(ctx, "p1", &public); err != nil {
			t.Fatalf("FollowPlaylist() error = %v", err)
		}
		if body := tu.MustReadBody(t, tr.LastRequest()); body != `{"public":false}` {
			t.Errorf("unexpected body %s", body)
		}
	})

	t.Run("FollowedArtistsPager", func(t *testing.T) {
		first := "https://api.spotify.com/v1/me/following?limit=1&type=artist"
		second := "https://api.spotify.com/v1/me/following?type=artist&after=a1&limit=1"
		tr := tu.NewTransport(t).
			On(first, tu.Reply{Body: `{"artists":{"href":"","items":[{"id":"a1"}],"limit":1,"next":"` + second + `","cursors":{"after":"a1"},"total":2}}`}).
			On(second, tu.Reply{Body: `{"artists":{"href":"","items":[{"id":"a2"}],"limit":1,"next":null,"cursors":{"after":null},"total":2}}`})

		p, err := newClient(tr).FollowedArtistsPager(ctx, 1)
		if err != nil {
			t.Fatalf("FollowedArtistsPager() error = %v", err)
		}
		artists, err := p.Collect(ctx, 0)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if len(artists) != 2 || artists[1].ID != "a2" {
			t.Errorf("unexpected artists %+v", artists)
		}
	})
}

func TestLibrary(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveTracks", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/tracks?ids=t1", tu.Reply{})
		if err := newClient(tr).SaveTracks(ctx, []string{"t1"}); err != nil {
			t.Fatalf("SaveTracks() error = %v", err)
		}
		if tr.LastRequest().Method != http.MethodPut {
			t.Error("expected PUT")
		}
	})

	t.Run("RemoveAlbums", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/albums?ids=al1", tu.Reply{})
		if err := newClient(tr).RemoveAlbums(ctx, []string{"al1"}); err != nil {
			t.Fatalf("RemoveAlbums() error = %v", err)
		}
		if tr.LastRequest().Method != http.MethodDelete {
			t.Error("expected DELETE")
		}
	})

	t.Run("ContainsTracks", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/tracks/contains?ids=t1", tu.Reply{Body: `[true]`})
		got, err := newClient(tr).ContainsTracks(ctx, []string{"t1"})
		if err != nil || len(got) != 1 || !got[0] {
			t.Fatalf("ContainsTracks() = %v, %v", got, err)
		}
	})

	t.Run("SavedTracks", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/tracks?limit=50&market=US&offset=50", tu.Reply{Body: `{"items":[{"added_at":"2020-01-01T00:00:00Z","track":{"name":"Roygbiv"}}],"next":null,"total":51}`})
		page, err := newClient(tr).SavedTracks(ctx, PageOptions{Limit: 50, Offset: 50, Market: "US"})
		if err != nil {
			t.Fatalf("SavedTracks() error = %v", err)
		}
		if page.Total != 51 || page.Items[0].Track.Name != "Roygbiv" {
			t.Errorf("unexpected page %+v", page)
		}
	})

	t.Run("api error", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/albums", tu.Reply{Status: http.StatusForbidden, Body: `{"error":{"status":403,"message":"Insufficient client scope"}}`})
		_, err := newClient(tr).SavedAlbums(ctx, PageOptions{})

		var se *client.StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden || se.Message != "Insufficient client scope" {
			t.Errorf("expected 403 StatusError, got %v", err)
		}
	})
}

func TestBrowseAndPersonalization(t *testing.T) {
	ctx := context.Background()

	t.Run("NewReleasesPager unwraps following pages", func(t *testing.T) {
		first := "https://api.spotify.com/v1/browse/new-releases?country=SE&limit=1"
		second := "https://api.spotify.com/v1/browse/new-releases?country=SE&offset=1&limit=1"
		tr := tu.NewTransport(t).
			On(first, tu.Reply{Body: `{"albums":{"items":[{"name":"one"}],"next":"` + second + `"}}`}).
			On(second, tu.Reply{Body: `{"albums":{"items":[{"name":"two"}],"next":null}}`})

		p, err := newClient(tr).NewReleasesPager(ctx, BrowseOptions{Country: "SE", Limit: 1})
		if err != nil {
			t.Fatalf("NewReleasesPager() error = %v", err)
		}
		albums, err := p.Collect(ctx, 0)
		if err != nil || len(albums) != 2 || albums[1].Name != "two" {
			t.Fatalf("unexpected albums %+v (%v)", albums, err)
		}
	})

	t.Run("TopTracks", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/me/top/tracks?limit=10&time_range=short_term", tu.Reply{Body: `{"items":[],"next":null}`})
		if _, err := newClient(tr).TopTracks(ctx, TopOptions{Limit: 10, TimeRange: models.TimeRangeShort}); err != nil {
			t.Fatalf("TopTracks() error = %v", err)
		}
	})

	t.Run("ShowEpisodes", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/shows/s1/episodes?limit=20", tu.Reply{Body: `{"items":[{"id":"e1","name":"Pilot"}],"next":null}`})
		page, err := newClient(tr).ShowEpisodes(ctx, "s1", PageOptions{Limit: 20})
		if err != nil || len(page.Items) != 1 || page.Items[0].Name != "Pilot" {
			t.Fatalf("ShowEpisodes() = %+v, %v", page, err)
		}
	})
}

func TestWithBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"me","display_name":"Test User"}`))
	}))
	defer srv.Close()

	d := client.New(srv.Client(), oauth.NewMemoryCache(&oauth.Token{AccessToken: "abc"}))
	c := New(d, WithBaseURL(srv.URL+"/v1/"))

	user, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.ID != "me" || user.DisplayName == nil || *user.DisplayName != "Test User" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestLookups(t *testing.T) {
	ctx := context.Background()

	t.Run("Episodes", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/episodes?ids=e1%2Ce2&market=US", tu.Reply{Body: `{"episodes":[{"id":"e1"},{"id":"e2"}]}`})
		got, err := newClient(tr).Episodes(ctx, []string{"e1", "e2"}, "US")
		if err != nil || len(got) != 2 || got[1].ID != "e2" {
			t.Fatalf("Episodes() = %+v, %v", got, err)
		}
	})

	t.Run("Category", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/browse/categories/party?locale=es_MX", tu.Reply{Body: `{"id":"party","name":"Fiesta"}`})
		got, err := newClient(tr).Category(ctx, "party", BrowseOptions{Locale: "es_MX", Limit: 5})
		if err != nil || got.Name != "Fiesta" {
			t.Fatalf("Category() = %+v, %v", got, err)
		}
	})

	t.Run("UsersFollowPlaylist", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://api.spotify.com/v1/playlists/p1/followers/contains?ids=u1", tu.Reply{Body: `[true]`})
		got, err := newClient(tr).UsersFollowPlaylist(ctx, "p1", []string{"u1"})
		if err != nil || len(got) != 1 || !got[0] {
			t.Fatalf("UsersFollowPlaylist() = %v, %v", got, err)
		}
	})

	t.Run("UsersFollowPlaylist rejects more than five users", func(t *testing.T) {
		tr := tu.NewTransport(t)
		_, err := newClient(tr).UsersFollowPlaylist(ctx, "p1", []string{"a", "b", "c", "d", "e", "f"})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if tr.Calls() != 0 {
			t.Errorf("expected no requests, got %d", tr.Calls())
		}
	})
}
