package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linkbio/internal/domain"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"ok/plain", "My Site", "My Site", true},
		{"ok/trimmed", "  My Site \t", "My Site", true},
		{"ok/max_len", strings.Repeat("я", 200), strings.Repeat("я", 200), true},

		{"bad/empty", "", "", false},
		{"bad/spaces_only", "   ", "", false},
		{"bad/too_long", strings.Repeat("a", 201), "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.ValidateTitle(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, domain.ErrInvalidTitle)
				require.ErrorIs(t, err, domain.ErrValidation)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeDestinationURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"ok/https", "https://example.com", "https://example.com", true},
		{"ok/http", "http://example.com", "http://example.com", true},
		{"ok/with_path_query_fragment", "https://example.com/a/b?x=1#y", "https://example.com/a/b?x=1#y", true},
		{"ok/bare_domain", "example.com", "https://example.com", true},
		{"ok/bare_domain_with_path", " example.com/me ", "https://example.com/me", true},

		{"bad/empty", "", "", false},
		{"bad/space", " ", "", false},
		{"bad/not_url", "not a url", "", false},
		{"bad/ftp", "ftp://example.com", "", false},
		{"bad/javascript", "javascript:alert(1)", "", false},
		{"bad/no_host", "https://", "", false},
		{"bad/too_long", "https://example.com/" + strings.Repeat("a", 2048), "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.NormalizeDestinationURL(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, domain.ErrInvalidURL)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePatch(t *testing.T) {
	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := domain.NormalizePatch(domain.LinkPatch{})
		require.ErrorIs(t, err, domain.ErrEmptyPatch)
	})

	t.Run("normalizes supplied fields only", func(t *testing.T) {
		title := "  New title "
		dest := "example.org"
		icon := " star "

		got, err := domain.NormalizePatch(domain.LinkPatch{Title: &title, DestinationURL: &dest, Icon: &icon})
		require.NoError(t, err)
		require.Equal(t, "New title", *got.Title)
		require.Equal(t, "https://example.org", *got.DestinationURL)
		require.Equal(t, "star", *got.Icon)
		require.Nil(t, got.TextColor)
		require.Nil(t, got.IsActive)
	})

	t.Run("negative order rejected", func(t *testing.T) {
		order := -1
		_, err := domain.NormalizePatch(domain.LinkPatch{Order: &order})
		require.ErrorIs(t, err, domain.ErrInvalidOrder)
	})

	t.Run("bad url rejected", func(t *testing.T) {
		dest := "ftp://example.org"
		_, err := domain.NormalizePatch(domain.LinkPatch{DestinationURL: &dest})
		require.ErrorIs(t, err, domain.ErrInvalidURL)
	})
}

func TestClickInputEventDefaults(t *testing.T) {
	ev := domain.ClickInput{}.Event(fixedNow)

	require.Equal(t, fixedNow, ev.Timestamp)
	require.Equal(t, "direct", ev.Referrer)
	require.Equal(t, "unknown", ev.Device)
	require.Equal(t, "unknown", ev.Browser)
	require.Equal(t, "unknown", ev.Location)

	require.False(t, domain.HasValue(ev.Device))
	require.False(t, domain.HasValue("  "))
	require.True(t, domain.HasValue("Berlin"))
}

func TestClickInputEventKeepsVisitTime(t *testing.T) {
	at := fixedNow.Add(-5 * time.Minute)
	ev := domain.ClickInput{At: at, Referrer: " https://google.com ", Location: strings.Repeat("x", 600)}.Event(fixedNow)

	require.Equal(t, at, ev.Timestamp)
	require.Equal(t, "https://google.com", ev.Referrer)
	require.Len(t, ev.Location, 512)
}
